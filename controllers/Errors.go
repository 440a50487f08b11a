package controllers

import "errors"

var (
	errAlreadyLinked = errors.New("already linked")
	errNoSuchRequest = errors.New("no such request")
	errNotConnected  = errors.New("not connected")
	errNoSuchUser    = errors.New("no such user")
)
