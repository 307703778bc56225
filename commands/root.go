package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"roomadmin/config"
	"roomadmin/session"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var envFiles []string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roomadmin",
	Short: "Quản lý phòng, gói giờ và order",
	Long: `roomadmin là client quản trị cho hệ thống đặt phòng theo giờ.

Dữ liệu, xác thực và ảnh nằm trên backend hosted (REST, auth, storage).
Có thể chạy dashboard API (serve) hoặc thao tác trực tiếp qua CLI.

Example:
  roomadmin login -u admin -p secret
  roomadmin rooms list --status 1
  roomadmin serve`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "File .env cần nạp (mặc định .env)")
}

// Execute chạy root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cliNavigator in hướng dẫn đăng nhập lại khi session hết hạn
type cliNavigator struct {
	out io.Writer
}

func (n cliNavigator) ToLogin(path string) {
	fmt.Fprintf(n.out, "Phiên đăng nhập đã hết hạn, hãy chạy `roomadmin login` (%s)\n", path)
}

// cliApp khởi tạo app cho các lệnh CLI; ctx mang route để redirect sau 401
func cliApp(cmd *cobra.Command) (context.Context, *app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	ctx := session.WithIntendedRoute(cmd.Context(), cmd.CommandPath())
	a, err := newApp(ctx, cfg, appOptions{
		WithLedger: true,
		Navigator:  cliNavigator{out: cmd.ErrOrStderr()},
	})
	if err != nil {
		return nil, nil, err
	}
	return ctx, a, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
