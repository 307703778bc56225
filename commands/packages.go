package commands

import (
	"fmt"

	"roomadmin/dto"

	"github.com/spf13/cobra"
)

// packagesCmd represents the packages command
var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "Quản lý gói giờ của phòng",
	Long: `Quản lý gói giờ của phòng.

Example:
  roomadmin packages list 12
  roomadmin packages create 12 --name "3 giờ" --hours 3 --price 250
  roomadmin packages update 5 --name "3 giờ" --hours 3 --price 220 --status 0
  roomadmin packages delete 5`,
}

var packagesListCmd = &cobra.Command{
	Use:   "list ROOM_ID",
	Short: "Danh sách gói giờ của phòng",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pkgs, err := a.packages.ListPackages(ctx, roomID)
		if err != nil {
			return err
		}
		return printJSON(cmd, pkgs)
	},
}

var packagesCreateCmd = &cobra.Command{
	Use:   "create ROOM_ID",
	Short: "Thêm gói giờ cho phòng",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pkg, err := a.packages.CreatePackage(ctx, roomID, packageRequest(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, pkg)
	},
}

var packagesUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Cập nhật gói giờ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		pkg, err := a.packages.UpdatePackage(ctx, id, packageRequest(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd, pkg)
	},
}

var packagesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Xóa gói giờ",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.packages.DeletePackage(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Đã xóa gói %d\n", id)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{packagesCreateCmd, packagesUpdateCmd} {
		f := c.Flags()
		f.String("name", "", "Tên gói")
		f.Int("hours", 0, "Số giờ")
		f.Float64("price", 0, "Giá gói")
		f.String("description", "", "Mô tả")
		f.Int("status", 1, "Trạng thái (0 tắt, 1 bật)")
		_ = c.MarkFlagRequired("name")
		_ = c.MarkFlagRequired("hours")
	}

	packagesCmd.AddCommand(packagesListCmd, packagesCreateCmd, packagesUpdateCmd, packagesDeleteCmd)
	rootCmd.AddCommand(packagesCmd)
}

func packageRequest(cmd *cobra.Command) dto.PackageRequest {
	f := cmd.Flags()
	req := dto.PackageRequest{}
	req.Name, _ = f.GetString("name")
	req.Hours, _ = f.GetInt("hours")
	req.Price, _ = f.GetFloat64("price")
	req.Description, _ = f.GetString("description")
	if f.Changed("status") {
		status, _ := f.GetInt("status")
		req.Status = &status
	}
	return req
}
