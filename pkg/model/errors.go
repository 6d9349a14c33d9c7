package model

import "errors"

var (
	ErrNoPrimaryKey   = errors.New("model: primary key is not loaded")
	ErrRecordNotFound = errors.New("model: record not found")
	ErrFieldNotFound  = errors.New("model: field not found")
)
