package main

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"accounthub/internal/config"
	"accounthub/internal/database"
	"accounthub/internal/platform/account"
	"accounthub/pkg/utils"
)

const (
	apiManagement = "management"
)

var apiBaseURL string
var apiKey string

type ResponseError struct {
	Message string `json:"message"`
}

var apiServiceBase = func() *resty.Client {
	return resty.New().
		SetBaseURL(apiBaseURL).
		SetHeader("Accept", "application/json").
		SetHeader("X-API-Key", apiKey).
		SetError(&ResponseError{}).
		OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
			if resp.StatusCode() >= 400 {
				return fmt.Errorf("%s", resp.Error().(*ResponseError).Message)
			}

			return nil
		})
}

var rootCmd = &cobra.Command{
	Use:   "accounthub",
	Short: "Accounthub CLI",
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <email> <username>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		username := args[1]
		password := utils.GenerateRandomString(12)

		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"email":    email,
				"username": username,
				"password": password,
			}).
			SetResult(&database.Account{}).
			Post(apiManagement + "/account")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		acct := resp.Result().(*database.Account)

		fmt.Println("Account ID :", acct.ID)
		fmt.Println("Email      :", acct.Email)
		fmt.Println("Username   :", acct.Username)
		fmt.Println("Password   :", password)
	},
}

var accountCreateSuperuserCmd = &cobra.Command{
	Use:   "create-superuser <email> <username>",
	Short: "Create a new superuser account",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		username := args[1]
		password := utils.GenerateRandomString(12)

		resp, err := apiServiceBase().R().
			SetBody(map[string]string{
				"email":    email,
				"username": username,
				"password": password,
			}).
			SetResult(&database.Account{}).
			Post(apiManagement + "/superuser")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		acct := resp.Result().(*database.Account)

		fmt.Println("Account ID :", acct.ID)
		fmt.Println("Email      :", acct.Email)
		fmt.Println("Username   :", acct.Username)
		fmt.Println("Superuser  :", acct.IsSuperuser)
		fmt.Println("Password   :", password)
	},
}

var accountCreateAuthKeyCmd = &cobra.Command{
	Use:   "auth-key <account_id>",
	Short: "Create a new auth key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		accountID := args[0]

		resp, err := apiServiceBase().R().
			SetResult(&database.AuthKey{}).
			Post(fmt.Sprintf("%s/account/%s/auth-key", apiManagement, accountID))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		authKey := resp.Result().(*database.AuthKey)

		fmt.Println("Account ID :", authKey.AccountID)
		fmt.Println("Key        :", authKey.Key)
	},
}

var accountResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <account_id>",
	Short: "Reset account password",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		accountID := args[0]
		password := utils.GenerateRandomString(12)

		_, err := apiServiceBase().R().
			SetBody(map[string]string{
				"password": password,
			}).
			Put(fmt.Sprintf("admin/account/%s/password", accountID))

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		fmt.Println("Account ID :", accountID)
		fmt.Println("Password   :", password)
	},
}

// TODO: This is just a validation of the API key
var accountProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Get current account",
	Run: func(cmd *cobra.Command, args []string) {
		resp, err := apiServiceBase().R().
			SetResult(&database.Account{}).
			Get("account/me")

		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		acct := resp.Result().(*database.Account)

		fmt.Println("Account ID :", acct.ID)
		fmt.Println("Email      :", acct.Email)
		fmt.Println("Username   :", acct.Username)
		fmt.Println("Staff      :", acct.IsStaff)
		fmt.Println("Active     :", acct.IsActive)
		fmt.Println("\nGroups")
		for _, group := range acct.Groups {
			fmt.Println("  - Group ID :", group.ID)
			fmt.Println("    Name     :", group.Name)
		}
	},
}

// bootstrapCmd talks to the database directly: the very first superuser
// and auth key cannot be created through the API.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <email> <username>",
	Short: "Create the initial superuser and auth key",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		db, err := database.Connect(cfg)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		password := utils.GenerateRandomString(12)

		acct, err := account.NewService(db).CreateSuperuser(args[0], args[1], password)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}

		authKey := database.AuthKey{AccountID: acct.ID}
		if result := db.Create(&authKey); result.Error != nil {
			fmt.Println("Error:", result.Error)
			return
		}

		fmt.Println("Account ID :", acct.ID)
		fmt.Println("Email      :", acct.Email)
		fmt.Println("Password   :", password)
		fmt.Println("Auth key   :", authKey.Key)
	},
}

func main() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountCreateSuperuserCmd)
	accountCmd.AddCommand(accountCreateAuthKeyCmd)
	accountCmd.AddCommand(accountResetPasswordCmd)
	accountCmd.AddCommand(accountProfileCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(bootstrapCmd)

	rootCmd.PersistentFlags().StringVarP(&apiBaseURL, "url", "u", "http://localhost:3000/api/", "API base URL")
	rootCmd.PersistentFlags().StringVarP(&apiKey, "key", "k", "", "API key")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
