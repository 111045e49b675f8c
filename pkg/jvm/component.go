package jvm

import (
	"github.com/motevm/motevm/pkg/monitor"
)

// Component init hook, run by the components package when the jvm
// subsystem is enabled in the image configuration.
func Init() {
	monitor.PrintROMStr("jvm initialising...")
}
