package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"likedposts/app/services"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginToken string
	loginLabel string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the bearer token the backend issued you",
	Args:  cobra.NoArgs,
	RunE:  login,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  logout,
}

func init() {
	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&loginToken, "token", "", "bearer token (prompted for when omitted)")
	loginCmd.Flags().StringVar(&loginLabel, "label", "", "a name for this login")
}

func login(cmd *cobra.Command, args []string) error {
	token := loginToken
	if token == "" {
		var err error
		token, err = readToken(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.sessions.Login(services.CLISessionID, token, loginLabel); err != nil {
		if msg, ok := services.LoginMessage(err); ok {
			return errors.New(msg)
		}
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Logged in")
	return nil
}

func logout(cmd *cobra.Command, args []string) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.sessions.Logout(services.CLISessionID); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Logged out")
	return nil
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", errors.Wrap(err, "failed to read token")
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "failed to read token")
	}
	return strings.TrimSpace(line), nil
}
