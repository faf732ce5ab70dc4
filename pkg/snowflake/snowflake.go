package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// SetNode 多实例部署时每个实例使用不同的 node
func SetNode(n int64) error {
	nd, err := snowflake.NewNode(n)
	if err != nil {
		return err
	}
	node = nd
	return nil
}

func GenID() int64 {
	return node.Generate().Int64()
}
