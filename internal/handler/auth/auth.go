package auth

import (
	"rental-market/internal/service"
	"rental-market/internal/store"
)

var (
	hashPassword      = service.HashPassword
	authenticateUser  = service.AuthenticateUser
	createUser        = store.CreateUser
	getUserByID       = store.GetUserByID
	getUserByUsername = store.GetUserByUsername
)
