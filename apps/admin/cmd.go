package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/student"
	"github.com/arcacademy/courseflow/core/teacher"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	teacherSvc *teacher.Service
	studentSvc *student.Service
	catalogSvc *catalog.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addteacher -email EMAIL [-name NAME] - add a teacher account or reset its password")
	fmt.Println("  seed                                 - load sample students and courses into an empty store")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addTeacherCmd := flag.NewFlagSet("addteacher", flag.ExitOnError)
	addTeacherEmail := addTeacherCmd.String("email", "", "The teacher's email. The password will be prompted next.")
	addTeacherName := addTeacherCmd.String("name", "", "The teacher's display name.")

	switch args[1] {
	case "addteacher":
		if err := addTeacherCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addTeacherEmail == "" {
			addTeacherCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addTeacherCmd.Usage()
			return errHelp
		}
		return cli.addTeacher(*addTeacherEmail, *addTeacherName, string(pwd))
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}

// addTeacher creates the account or resets its password; the stored password
// is always a bcrypt hash.
func (cli *commandLine) addTeacher(email, name, pwd string) error {
	tch, err := cli.teacherSvc.AddOrUpdate(email, name, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("teacher %q saved\n", tch.Email)
	return nil
}
