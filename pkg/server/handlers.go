package server

import (
	"Vine/handler"
)

type Handlers struct {
	Account *handler.Account
	Reward  *handler.Reward
	Content *handler.Content
	Admin   *handler.Admin
}
