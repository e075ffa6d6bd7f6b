package service

import "errors"

var errSessionCreate = errors.New("failed to create session")
