package commands

import (
	"fmt"

	"roomadmin/jobs"

	"github.com/spf13/cobra"
)

// orphansCmd represents the orphans command
var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "Dọn ảnh không còn phòng nào dùng",
}

var orphansReapCmd = &cobra.Command{
	Use:   "reap",
	Short: "Chạy một lượt dọn ảnh mồ côi",
	Long: `Thử xóa lại các ảnh trong ledger; với --sweep thì quét cả bucket và xóa
ảnh không được phòng nào tham chiếu, cũ hơn thời gian chờ cấu hình.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, a, err := cliApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		opts := jobs.ReaperOptions{
			Images:  a.images,
			Data:    a.data,
			Session: a.store,
			Bucket:  a.cfg.Storage.Bucket,
			Sweep:   a.cfg.Orphan.SweepEnabled,
			Grace:   a.cfg.Orphan.SweepGrace,
			Logger:  a.log,
		}
		if cmd.Flags().Changed("sweep") {
			opts.Sweep, _ = cmd.Flags().GetBool("sweep")
		}
		if a.ledger != nil {
			opts.Ledger = a.ledger
		}
		reaper := jobs.NewReaper(opts)

		retried, err := reaper.RetryLedger(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ledger: đã xử lý %d ảnh\n", retried)
		if !opts.Sweep {
			return nil
		}
		swept, err := reaper.Sweep(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sweep: đã xóa %d ảnh\n", swept)
		return nil
	},
}

func init() {
	orphansReapCmd.Flags().Bool("sweep", false, "Quét toàn bucket (mặc định theo ORPHAN_SWEEP_ENABLED)")
	orphansCmd.AddCommand(orphansReapCmd)
	rootCmd.AddCommand(orphansCmd)
}
