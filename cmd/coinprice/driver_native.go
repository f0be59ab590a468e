//go:build !wasip1

package main

import (
	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/driver/native"
)

func defaultDriver() driver.Driver { return native.New(native.Config{}) }
