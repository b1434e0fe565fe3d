package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hyaochen/echolingo-lab/internal/account"
	"github.com/hyaochen/echolingo-lab/internal/store"
)

var (
	usersAddAdmin bool
	usersRemoveAs string

	usersCmd = &cobra.Command{
		Use:   "users",
		Short: "Manage accounts in the data file",
	}

	usersListCmd = &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			st.View(func(env *store.Envelope) {
				if len(env.Users) == 0 {
					fmt.Println("No accounts yet. Create one with: echolingo users add <name>")
					return
				}
				for _, u := range env.Users {
					role := ""
					if u.Admin {
						role = " (admin)"
					}
					fmt.Printf("%s%s · %d words, %d sentences, created %s\n",
						u.Name, role,
						len(u.Data.Vocabulary), len(u.Data.Sentences),
						u.CreatedAt.Format("2006-01-02"))
				}
			})
			return nil
		},
	}

	usersAddCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			password, err := promptPassword("Password for " + args[0])
			if err != nil {
				return err
			}

			mgr := account.NewManager(st)
			u, err := mgr.Create(args[0], password, usersAddAdmin)
			if err != nil {
				return err
			}

			role := "account"
			if u.Admin {
				role = "admin account"
			}
			fmt.Printf("Created %s %q\n", role, u.Name)
			return nil
		},
	}

	usersRemoveCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an account and its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			mgr := account.NewManager(st)

			// With several accounts on file, removal takes an admin.
			if len(st.Users()) > 1 {
				if usersRemoveAs == "" {
					return fmt.Errorf("removing an account needs an admin: rerun with --as <admin>")
				}
				password, err := promptPassword("Password for " + usersRemoveAs)
				if err != nil {
					return err
				}
				admin, err := mgr.Authenticate(usersRemoveAs, password)
				if err != nil {
					return err
				}
				if !admin.Admin {
					return fmt.Errorf("%s is not an admin", admin.Name)
				}
			}

			if err := mgr.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed account %q\n", args[0])
			return nil
		},
	}
)

func init() {
	usersAddCmd.Flags().BoolVar(&usersAddAdmin, "admin", false, "grant admin rights")
	usersRemoveCmd.Flags().StringVar(&usersRemoveAs, "as", "", "admin account authorizing the removal")
	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersRemoveCmd)
}

// openStore opens the account envelope the same way the TUI does.
func openStore() (*store.Store, error) {
	path, err := resolveDataFile()
	if err != nil {
		return nil, err
	}
	return store.Open(store.Config{
		Path:       path,
		BackupKeep: backupKeep,
		SaveDelay:  saveDelay,
	})
}

// promptPassword reads a password without echo when stdin is a
// terminal, and as a plain line otherwise so scripts can pipe it in.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("unable to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("unable to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
