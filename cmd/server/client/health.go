package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

var healthService string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Query the gRPC health endpoint",
	Long: `Query the gRPC health endpoint. Pass --service rpg_gm.ModelBackend to
check whether the server can reach its model backend.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conn, err := grpc.NewClient(grpcAddr,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return fmt.Errorf("failed to connect to server: %w", err)
		}
		defer func() {
			_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
		}()

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
			Service: healthService,
		})
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}

		name := healthService
		if name == "" {
			name = "server"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, resp.GetStatus())
		return nil
	},
}

func init() {
	healthCmd.Flags().StringVar(&healthService, "service", "", "Health service name (empty for overall)")
}
