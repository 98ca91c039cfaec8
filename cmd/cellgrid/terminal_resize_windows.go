//go:build windows

package main

import "os"

// Windows has no resize signal; Draw picks up size changes on its own.
func registerTerminalResize(chan<- os.Signal) {}

func unregisterTerminalResize(chan<- os.Signal) {}
