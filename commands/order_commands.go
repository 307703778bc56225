package commands

import (
	"context"
	"fmt"
	"time"

	"roomadmin/dto"
	"roomadmin/models"

	"github.com/spf13/cobra"
)

// OrderExecutor là phần của OrderService mà các command cần
type OrderExecutor interface {
	CreateOrder(ctx context.Context, params dto.CreateOrderParams) (*models.Order, error)
	ConfirmOrder(ctx context.Context, id int64) (*models.Order, error)
	CancelOrder(ctx context.Context, id int64) (*models.Order, error)
	CompleteOrder(ctx context.Context, id int64) (*models.Order, error)
}

// OrderCommand định nghĩa interface cho các command
type OrderCommand interface {
	Execute(ctx context.Context) (*models.Order, error)
}

// CreateOrderCommand command để tạo order mới
type CreateOrderCommand struct {
	params dto.CreateOrderParams
	orders OrderExecutor
}

func NewCreateOrderCommand(params dto.CreateOrderParams, orders OrderExecutor) *CreateOrderCommand {
	return &CreateOrderCommand{
		params: params,
		orders: orders,
	}
}

func (c *CreateOrderCommand) Execute(ctx context.Context) (*models.Order, error) {
	return c.orders.CreateOrder(ctx, c.params)
}

// TransitionOrderCommand command để chuyển trạng thái order
type TransitionOrderCommand struct {
	action  string
	orderID int64
	orders  OrderExecutor
}

func NewTransitionOrderCommand(action string, orderID int64, orders OrderExecutor) (*TransitionOrderCommand, error) {
	switch action {
	case "confirm", "cancel", "complete":
	default:
		return nil, fmt.Errorf("thao tác order không hợp lệ: %s", action)
	}
	return &TransitionOrderCommand{
		action:  action,
		orderID: orderID,
		orders:  orders,
	}, nil
}

func (c *TransitionOrderCommand) Execute(ctx context.Context) (*models.Order, error) {
	switch c.action {
	case "confirm":
		return c.orders.ConfirmOrder(ctx, c.orderID)
	case "cancel":
		return c.orders.CancelOrder(ctx, c.orderID)
	default:
		return c.orders.CompleteOrder(ctx, c.orderID)
	}
}

// ordersCmd represents the orders command
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Quản lý order",
	Long: `Quản lý order đặt phòng theo giờ.

Example:
  roomadmin orders list --status 0
  roomadmin orders create --room 12 --package 3 --start 2024-05-01T14:00:00+07:00
  roomadmin orders confirm 42`,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Danh sách order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f := cmd.Flags()
		filter := dto.OrderFilter{}
		filter.RoomID, _ = f.GetInt64("room")
		filter.UserID, _ = f.GetString("user")
		filter.Page, _ = f.GetInt("page")
		filter.Limit, _ = f.GetInt("limit")
		if f.Changed("status") {
			status, _ := f.GetInt("status")
			filter.Status = &status
		}

		page, err := a.orders.ListOrders(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

var ordersGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Chi tiết order",
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

		order, err := a.orders.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(cmd, order)
	},
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Tạo order",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		params := dto.CreateOrderParams{}
		params.RoomID, _ = f.GetInt64("room")
		params.Hours, _ = f.GetInt("hours")
		params.UserID, _ = f.GetString("user")
		params.ContactName, _ = f.GetString("contact-name")
		params.ContactPhone, _ = f.GetString("contact-phone")
		params.Remark, _ = f.GetString("remark")
		if f.Changed("package") {
			pkg, _ := f.GetInt64("package")
			params.PackageID = &pkg
		}
		start, _ := f.GetString("start")
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return fmt.Errorf("thời gian bắt đầu không hợp lệ (RFC3339): %s", start)
		}
		params.StartTime = t

		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if params.UserID == "" {
			if user := a.store.Current(); user != nil {
				params.UserID = user.User.ID
			}
		}
		return runOrderCommand(ctx, cmd, NewCreateOrderCommand(params, a.orders))
	},
}

func init() {
	lf := ordersListCmd.Flags()
	lf.Int("status", 0, "Lọc theo trạng thái (0 chờ, 1 xác nhận, 2 hoàn thành, 3 hủy)")
	lf.Int64("room", 0, "Lọc theo phòng")
	lf.String("user", "", "Lọc theo user")
	lf.Int("page", 0, "Trang, bắt đầu từ 0")
	lf.Int("limit", 10, "Số order mỗi trang")

	cf := ordersCreateCmd.Flags()
	cf.Int64("room", 0, "ID phòng")
	cf.Int64("package", 0, "ID gói giờ")
	cf.Int("hours", 0, "Số giờ khi không dùng gói")
	cf.String("start", "", "Thời gian bắt đầu (RFC3339)")
	cf.String("user", "", "User đặt phòng (mặc định user đang đăng nhập)")
	cf.String("contact-name", "", "Tên liên hệ")
	cf.String("contact-phone", "", "Số điện thoại liên hệ")
	cf.String("remark", "", "Ghi chú")
	_ = ordersCreateCmd.MarkFlagRequired("room")
	_ = ordersCreateCmd.MarkFlagRequired("start")

	ordersCmd.AddCommand(ordersListCmd, ordersGetCmd, ordersCreateCmd)
	for _, action := range []string{"confirm", "cancel", "complete"} {
		ordersCmd.AddCommand(transitionCmd(action))
	}
	rootCmd.AddCommand(ordersCmd)
}

func transitionCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " ID",
		Short: "Chuyển order sang trạng thái " + action,
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

			command, err := NewTransitionOrderCommand(action, id, a.orders)
			if err != nil {
				return err
			}
			return runOrderCommand(ctx, cmd, command)
		},
	}
}

func runOrderCommand(ctx context.Context, cmd *cobra.Command, command OrderCommand) error {
	order, err := command.Execute(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, order)
}
