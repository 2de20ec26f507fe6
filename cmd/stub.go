package cmd

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pokereports/pokereports/internal/stubserver"
)

var (
	stubListenFlag        string
	stubCompleteAfterFlag time.Duration
	stubEnvelopeFlag      string
	stubShutdownFlag      time.Duration
)

var stubServerCmd = &cobra.Command{
	Use:    "stub-server",
	Short:  "Serve an in-memory report API for local development",
	Hidden: true,
	Example: `  pokereports stub-server --listen :8000 --complete-after 10s --envelope results
  pokereports -s http://localhost:8000 --types-url http://localhost:8000/api/types session`,
	RunE: runStubServer,
}

func init() {
	stubServerCmd.Flags().StringVar(&stubListenFlag, "listen", ":8000", "Listen address")
	stubServerCmd.Flags().DurationVar(&stubCompleteAfterFlag, "complete-after", 5*time.Second, "Time until a new report is completed")
	stubServerCmd.Flags().StringVar(&stubEnvelopeFlag, "envelope", "array", "List envelope (array, results, data)")
	stubServerCmd.Flags().DurationVar(&stubShutdownFlag, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	rootCmd.AddCommand(stubServerCmd)
}

func runStubServer(cmd *cobra.Command, args []string) error {
	envelope, err := stubserver.ParseEnvelope(stubEnvelopeFlag)
	if err != nil {
		return err
	}
	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := stubserver.New(stubserver.Config{
		CompleteAfter: stubCompleteAfterFlag,
		Envelope:      envelope,
	})
	return srv.Run(cmd.Context(), stubListenFlag, stubShutdownFlag)
}
