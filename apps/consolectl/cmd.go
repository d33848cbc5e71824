// consolectl drives a running console daemon from the terminal: open a
// session, check backend health and force a sync drain.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	baseURL string
	http    *http.Client
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -employee EMPLOYEE_ID - open a console session; the password is prompted next")
	fmt.Println("  status                      - print backend health and pending sync items")
	fmt.Println("  syncnow                     - drain the outbox immediately")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmployee := loginCmd.String("employee", "", "The teacher's employee ID. The password will be prompted next.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmployee == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmployee, string(pwd))
	case "status":
		return cli.status()
	case "syncnow":
		return cli.syncNow()
	default:
		cli.printUsage()
		return errHelp
	}
}
