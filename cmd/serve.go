package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/flame-cai/video-qna-backend/internal/apihandlers"
)

var (
	serveAddr string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Video QnA HTTP API server",
	Long: `Starts an HTTP server exposing video chapter generation and answer
evaluation via a RESTful API. Generation jobs run asynchronously; poll the
task endpoint for results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()

		router := gin.Default()

		apiHandler := apihandlers.NewAPIHandler(appInstance)

		router.POST("/generate-video", apiHandler.GenerateVideoHandler)
		router.GET("/generate-video/:taskId", apiHandler.TaskStatusHandler)
		router.POST("/evaluate-answer", apiHandler.EvaluateAnswerHandler)

		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, "Video QnA Generator")
		})
		router.GET("/health", func(c *gin.Context) {
			if err := appInstance.PingStore(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		addr := serveAddr
		if addr == "" {
			addr = appInstance.Config.Server.Addr
		}
		port := servePort
		if port == "" {
			port = appInstance.Config.Server.Port
		}
		listenAddr := fmt.Sprintf("%s:%s", addr, port)
		log.Infof("starting Video QnA API server on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (defaults to config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (defaults to config)")
}
