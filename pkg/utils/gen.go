package utils

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"

	"github.com/speps/go-hashids/v2"
)

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func PanicTrace(err interface{}) string {
	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "%v\n", err)
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fmt.Fprintf(buf, "%s:%d (0x%x)\n", file, line, pc)
	}
	return buf.String()
}

// GenReferralCode 由账户 id 生成不可猜测的推荐码，id 唯一则推荐码唯一
func GenReferralCode(salt string, id int64) (string, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8
	hd.Alphabet = referralAlphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return "", err
	}
	code, err := h.EncodeInt64([]int64{id})
	if err != nil {
		return "", err
	}
	return strings.ToUpper(code), nil
}
