package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account",
	Long: `Creates an account for transcript export and login. Passwords need
at least 8 characters with an uppercase letter, a lowercase letter,
a digit and a special character.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in with email, password and a one-time code",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	svcs, err := ensureServices()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword(cmd, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := svcs.Auth.Register(context.Background(), args[0], password); err != nil {
		return err
	}

	cmd.Println("Account created.")
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	svcs, err := ensureServices()
	if err != nil {
		return err
	}

	password, err := readPassword(cmd, "Password: ")
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := svcs.Auth.Login(ctx, args[0], password); err != nil {
		return err
	}
	cmd.Println("A one-time code has been sent to your email.")

	code, err := readLine(cmd, "Code: ")
	if err != nil {
		return err
	}
	if err := svcs.Auth.VerifyOTP(ctx, args[0], code); err != nil {
		return err
	}

	cmd.Println("Logged in.")
	return nil
}

// readPassword prompts without echoing. Falls back to plain line input
// when stdin is not a terminal (tests, pipes).
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(cmd, prompt)
	}

	cmd.Print(prompt)
	password, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

// readLine reads unbuffered so consecutive prompts never swallow each
// other's input.
func readLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	in := cmd.InOrStdin()

	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
		}
		if err != nil {
			if len(line) == 0 {
				return "", fmt.Errorf("read input: %w", err)
			}
			break
		}
	}
	return strings.TrimSpace(string(line)), nil
}
