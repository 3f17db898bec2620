package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/session"
)

const (
	loginFailed        = "Login failed"
	registrationFailed = "Registration failed"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and keep the credential for later commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		passwordFile, _ := cmd.Flags().GetString("password-file")

		return login(cmd.Context(), rt, username, passwordFile)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		passwordFile, _ := cmd.Flags().GetString("password-file")

		if username, err = askIfEmpty("Username", username); err != nil {
			return err
		}
		if email, err = askIfEmpty("Email", email); err != nil {
			return err
		}
		password, err := resolvePassword(passwordFile)
		if err != nil {
			return err
		}

		account, err := rt.client.Register(cmd.Context(), screening.Registration{
			Username: username,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return errors.New(screening.Detail(err, registrationFailed))
		}

		rt.logger.Info("account created",
			zap.String("username", account.Username),
			zap.String("hint", "run `screener login` to sign in"),
		)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored credential",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}
		return rt.session.Logout()
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringP("username", "u", "", "account username, prompted when empty")
		c.Flags().String("password-file", "", "read the password from a file instead of prompting")
	}
	registerCmd.Flags().String("email", "", "account email, prompted when empty")
}

func login(ctx context.Context, rt *runtime, username, passwordFile string) error {
	username, err := askIfEmpty("Username", username)
	if err != nil {
		return err
	}

	password, err := resolvePassword(passwordFile)
	if err != nil {
		return err
	}

	token, err := rt.client.Login(ctx, username, password)
	if err != nil {
		rt.logger.Debug("login failed", zap.Error(err))
		return errors.New(screening.Detail(err, loginFailed))
	}

	if err := rt.session.Set(token); err != nil {
		return err
	}

	rt.logger.Info("logged in", zap.String("username", username))
	return nil
}

// resolvePassword reads the password from a file, SCREENER_PASSWORD, or a
// masked prompt, in that order.
func resolvePassword(file string) (string, error) {
	password, err := session.LoadSecret(session.Source{
		Name:  "password",
		Value: viper.GetString("password"),
		File:  file,
	})
	if err == nil {
		return password, nil
	}
	if strings.TrimSpace(file) != "" || !errors.Is(err, session.ErrEmptySecret) {
		return "", err
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("password is required")
			}
			return nil
		},
	}
	return prompt.Run()
}

func askIfEmpty(label, value string) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return value, nil
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(label))
			}
			return nil
		},
	}
	value, err := prompt.Run()
	return strings.TrimSpace(value), err
}
