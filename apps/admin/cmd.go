package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *gorm.DB
	usrRepo    user.Repository
	agencyRepo agency.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply the database schema")
	fmt.Println("  addagent -name NAME -email EMAIL [-admin] - create or update an agent account")
	fmt.Println("  resetpassword -email EMAIL - reset an agent's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAgentCmd := flag.NewFlagSet("addagent", flag.ExitOnError)
	addAgentName := addAgentCmd.String("name", "", "The agent's full name.")
	addAgentEmail := addAgentCmd.String("email", "", "The agent's email. The password will be prompted next.")
	addAgentAdmin := addAgentCmd.Bool("admin", false, "Grant admin rights.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The agent's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "addagent":
		if err := addAgentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAgentName == "" || *addAgentEmail == "" {
			addAgentCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAgentCmd.Usage()
			return errHelp
		}
		return cli.addAgent(*addAgentName, *addAgentEmail, pwd, *addAgentAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
