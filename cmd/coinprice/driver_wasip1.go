//go:build wasip1

package main

import (
	"github.com/hostfns/hosthttp/driver"
	"github.com/hostfns/hosthttp/driver/wasm"
)

func defaultDriver() driver.Driver { return wasm.Driver{} }
