package commands

import (
	"fmt"

	"roomadmin/dto"

	"github.com/spf13/cobra"
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Đăng nhập và lưu session cục bộ",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.auth.Login(ctx, credentialsFrom(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Đăng nhập thành công: %s (role %d)\n", sess.User.Username, sess.User.Role)
		return nil
	},
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Tạo tài khoản quản trị rồi đăng nhập",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.auth.Register(ctx, credentialsFrom(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Đăng ký thành công: %s\n", sess.User.Username)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Đăng xuất và xóa session cục bộ",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Đã đăng xuất")
		return nil
	},
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Hiển thị user của session hiện tại",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.auth.CurrentUser(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd, user)
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringP("username", "u", "", "Tên đăng nhập")
		c.Flags().StringP("password", "p", "", "Mật khẩu")
		_ = c.MarkFlagRequired("username")
		_ = c.MarkFlagRequired("password")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

func credentialsFrom(cmd *cobra.Command) dto.Credentials {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	return dto.Credentials{Username: username, Password: password}
}
