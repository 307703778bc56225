package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"roomadmin/dto"
	"roomadmin/models"

	"github.com/spf13/cobra"
)

// roomsCmd represents the rooms command
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Quản lý phòng",
	Long: `Quản lý phòng và ảnh của phòng.

Example:
  roomadmin rooms list --status 1 --tag vip
  roomadmin rooms search phong vip quan 1
  roomadmin rooms create --name VIP-1 --price 100 --image a.jpg --image b.png
  roomadmin rooms update 12 --keep-image https://.../old.jpg --image new.jpg
  roomadmin rooms status 12 3
  roomadmin rooms delete 12`,
}

var roomsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Danh sách phòng",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f := cmd.Flags()
		filter := dto.RoomFilter{}
		filter.Name, _ = f.GetString("name")
		filter.Area, _ = f.GetString("area")
		filter.Tags, _ = f.GetStringSlice("tag")
		filter.WithPackages, _ = f.GetBool("with-packages")
		filter.Page, _ = f.GetInt("page")
		filter.Limit, _ = f.GetInt("limit")
		if f.Changed("status") {
			status, _ := f.GetInt("status")
			filter.Status = &status
		}
		if f.Changed("min-price") {
			v, _ := f.GetFloat64("min-price")
			filter.MinPrice = &v
		}
		if f.Changed("max-price") {
			v, _ := f.GetFloat64("max-price")
			filter.MaxPrice = &v
		}

		page, err := a.rooms.ListRooms(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

var roomsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Chi tiết phòng",
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

		room, err := a.rooms.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(cmd, room)
	},
}

var roomsSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Tìm phòng gần đúng theo tên, khu vực, tag",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		rooms, err := a.rooms.SearchRooms(ctx, strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		return printJSON(cmd, rooms)
	},
}

var roomsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Tạo phòng, upload ảnh từ file cục bộ",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		params := dto.CreateRoomParams{}
		params.Name, _ = f.GetString("name")
		params.Description, _ = f.GetString("description")
		params.Area, _ = f.GetString("area")
		params.Price, _ = f.GetFloat64("price")
		params.Tags, _ = f.GetStringSlice("tag")
		if f.Changed("status") {
			status, _ := f.GetInt("status")
			rs := models.RoomStatus(status)
			params.Status = &rs
		}
		images, err := imageInputs(cmd)
		if err != nil {
			return err
		}
		params.Images = images

		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		room, err := a.rooms.CreateRoom(ctx, params)
		if err != nil {
			return err
		}
		return printJSON(cmd, room)
	},
}

var roomsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Cập nhật một phần thông tin phòng",
	Long: `Cập nhật các trường được truyền. Nếu có --image hoặc --keep-image thì danh
sách ảnh được thay bằng ảnh giữ lại + ảnh mới; ảnh cũ không còn dùng bị xóa.
--clear-images xóa toàn bộ ảnh.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		f := cmd.Flags()
		params := dto.UpdateRoomParams{}
		if f.Changed("name") {
			v, _ := f.GetString("name")
			params.Name = &v
		}
		if f.Changed("description") {
			v, _ := f.GetString("description")
			params.Description = &v
		}
		if f.Changed("area") {
			v, _ := f.GetString("area")
			params.Area = &v
		}
		if f.Changed("price") {
			v, _ := f.GetFloat64("price")
			params.Price = &v
		}
		if f.Changed("status") {
			v, _ := f.GetInt("status")
			rs := models.RoomStatus(v)
			params.Status = &rs
		}
		if f.Changed("tag") {
			params.Tags, _ = f.GetStringSlice("tag")
		}
		clear, _ := f.GetBool("clear-images")
		if clear || f.Changed("image") || f.Changed("keep-image") {
			images, err := imageInputs(cmd)
			if err != nil {
				return err
			}
			params.Images = append([]dto.ImageInput{}, images...)
		}

		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		room, err := a.rooms.UpdateRoom(ctx, id, params)
		if err != nil {
			return err
		}
		return printJSON(cmd, room)
	},
}

var roomsStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Đổi trạng thái phòng (0 tắt, 1 trống, 2 đang dùng, 3 bảo trì)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		status, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("trạng thái không hợp lệ: %s", args[1])
		}
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		room, err := a.rooms.UpdateRoomStatus(ctx, id, status)
		if err != nil {
			return err
		}
		return printJSON(cmd, room)
	},
}

var roomsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Xóa phòng và ảnh của phòng",
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

		if err := a.rooms.DeleteRoom(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Đã xóa phòng %d\n", id)
		return nil
	},
}

func init() {
	lf := roomsListCmd.Flags()
	lf.Int("status", 0, "Lọc theo trạng thái")
	lf.String("name", "", "Lọc theo tên (chứa)")
	lf.String("area", "", "Lọc theo khu vực")
	lf.Float64("min-price", 0, "Giá tối thiểu")
	lf.Float64("max-price", 0, "Giá tối đa")
	lf.StringSlice("tag", nil, "Lọc theo tag (có thể lặp)")
	lf.Bool("with-packages", false, "Kèm gói giờ")
	lf.Int("page", 0, "Trang, bắt đầu từ 0")
	lf.Int("limit", 10, "Số phòng mỗi trang")

	roomsSearchCmd.Flags().Int("limit", 10, "Số kết quả tối đa")

	for _, c := range []*cobra.Command{roomsCreateCmd, roomsUpdateCmd} {
		f := c.Flags()
		f.String("name", "", "Tên phòng")
		f.String("description", "", "Mô tả")
		f.String("area", "", "Khu vực")
		f.Float64("price", 0, "Giá theo giờ")
		f.Int("status", 1, "Trạng thái")
		f.StringSlice("tag", nil, "Tag (có thể lặp)")
		f.StringArray("image", nil, "File ảnh cục bộ cần upload (có thể lặp)")
		f.StringArray("keep-image", nil, "URL ảnh có sẵn giữ lại (có thể lặp)")
	}
	_ = roomsCreateCmd.MarkFlagRequired("name")
	roomsUpdateCmd.Flags().Bool("clear-images", false, "Xóa toàn bộ ảnh của phòng")

	roomsCmd.AddCommand(roomsListCmd, roomsGetCmd, roomsSearchCmd, roomsCreateCmd, roomsUpdateCmd, roomsStatusCmd, roomsDeleteCmd)
	rootCmd.AddCommand(roomsCmd)
}

// imageInputs ghép URL giữ lại và file cục bộ theo thứ tự đó
func imageInputs(cmd *cobra.Command) ([]dto.ImageInput, error) {
	keep, _ := cmd.Flags().GetStringArray("keep-image")
	paths, _ := cmd.Flags().GetStringArray("image")

	var inputs []dto.ImageInput
	for _, u := range keep {
		inputs = append(inputs, dto.ImageURL(u))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("đọc ảnh %s: %w", p, err)
		}
		inputs = append(inputs, dto.NewImage(&dto.ImageFile{
			Name: filepath.Base(p),
			Size: int64(len(data)),
			Data: data,
		}))
	}
	return inputs, nil
}

func parseIDArg(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("ID không hợp lệ: %s", s)
	}
	return id, nil
}
