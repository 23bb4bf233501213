// Command bmictl drives a BMI session against a simulated target.
//
// Settings come from BMICTL_* environment variables, optionally loaded
// from a .env file in the working directory; flags override them.
//
//	bmictl target-info --hardware intstatus
//	bmictl read-mem 0x00400000 64 --trace bmi.sqlite3
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		atexit.Exit(1)
	}

	if err := newRootCmd(loadConfig()).Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
