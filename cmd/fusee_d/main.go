package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hoepeyemi/fusee-sub001/events"
	"github.com/hoepeyemi/fusee-sub001/events/file_events"
	"github.com/hoepeyemi/fusee-sub001/events/kafka_events"
	"github.com/hoepeyemi/fusee-sub001/gateway"
	"github.com/hoepeyemi/fusee-sub001/gateway/http_gateway"
	"github.com/hoepeyemi/fusee-sub001/gateway/noop_gateway"
	"github.com/hoepeyemi/fusee-sub001/node/api/http_api"
	"github.com/hoepeyemi/fusee-sub001/node/config"
	"github.com/hoepeyemi/fusee-sub001/node/modules/keystore"
	"github.com/hoepeyemi/fusee-sub001/node/modules/logger"
	"github.com/hoepeyemi/fusee-sub001/node/services"
	"github.com/hoepeyemi/fusee-sub001/node/services/engine"
	"github.com/hoepeyemi/fusee-sub001/node/services/multisig"
	"github.com/hoepeyemi/fusee-sub001/node/services/scheduler"
	"github.com/hoepeyemi/fusee-sub001/node/services/signers"
	"github.com/hoepeyemi/fusee-sub001/store"
	"github.com/hoepeyemi/fusee-sub001/store/gorm_store"
	"github.com/hoepeyemi/fusee-sub001/store/leveldb_store"
)

const (
	flagConfigPath = "config"
	flagMnemonic   = "mnemonic"
)

func init() {
	rootCmd.PersistentFlags().String(flagConfigPath, "", "Path to the YAML config file (defaults and FUSEE_ env apply without one)")
}

func initConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init_config [path]",
		Short: "writes a commented default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "./fusee_config.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Printf("config template written to %s\n", path)
			return nil
		},
	}
}

func genKeyPairCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen_keys",
		Short: "generates the node identity keypair used to sign audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString(flagConfigPath)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			mnemonic, err := cmd.Flags().GetString(flagMnemonic)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			if mnemonic == "" {
				if mnemonic, err = keystore.GenerateMnemonic(); err != nil {
					return err
				}
				fmt.Printf("backup phrase (store it offline):\n%s\n\n", mnemonic)
			}

			keyPair, err := keystore.NewKeyPairFromMnemonic(mnemonic)
			if err != nil {
				return err
			}

			keyStore, err := keystore.NewLevelDBKeyStore(cfg.KeyStoreDBDSN)
			if err != nil {
				return fmt.Errorf("failed to init key store: %w", err)
			}
			if err = keyStore.PutKeys(cfg.NodeName, keyPair); err != nil {
				return fmt.Errorf("failed to save keypair: %w", err)
			}
			fmt.Printf("keypair generated for node %s and saved to %s\n", cfg.NodeName, cfg.KeyStoreDBDSN)
			fmt.Printf("node public key: %s\n", keyPair.GetAddr())
			return nil
		},
	}
	cmd.Flags().String(flagMnemonic, "", "Restore the keypair from an existing backup phrase instead of generating one")
	return cmd
}

func parseKafkaAuthCredentials(creds string) (*kafka_events.KafkaAuthCredentials, error) {
	credsSplited := strings.SplitN(creds, ":", 2)
	if len(credsSplited) == 1 {
		return nil, fmt.Errorf("failed to parse credentials")
	}
	return &kafka_events.KafkaAuthCredentials{
		Username: credsSplited[0],
		Password: credsSplited[1],
	}, nil
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "leveldb":
		return leveldb_store.NewLevelDBStore(cfg.Store.DBDSN)
	case "postgres":
		return gorm_store.NewGormStore(cfg.Store.DBDSN)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildGateway(cfg *config.Config) (gateway.Gateway, error) {
	switch cfg.Gateway.Driver {
	case "http":
		return http_gateway.NewHTTPGateway(cfg.Gateway.Endpoint, cfg.Gateway.Timeout()), nil
	case "noop":
		return noop_gateway.NewNoopGateway(), nil
	}
	return nil, fmt.Errorf("unknown gateway driver %q", cfg.Gateway.Driver)
}

func buildPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "file":
		return file_events.NewFileEvents(cfg.Events.FilePath, cfg.Events.LockPath)
	case "kafka":
		tlsConfig, err := kafka_events.GetTLSConfig(cfg.Events.KafkaTrustStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create tls config: %w", err)
		}
		producerCreds, err := parseKafkaAuthCredentials(cfg.Events.KafkaProducerCredentials)
		if err != nil {
			return nil, err
		}
		return kafka_events.NewKafkaEvents(cfg.Events.KafkaEndpoint, cfg.Events.KafkaTopic,
			tlsConfig, producerCreds.Mechanism(), cfg.Events.Timeout())
	}
	return nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
}

func startNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts the fusee governance node",
		Run: func(cmd *cobra.Command, args []string) {
			configPath, err := cmd.Flags().GetString(flagConfigPath)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				log.Fatalf("failed to load config: %v", err)
			}

			ctx := context.Background()
			ctx, cancel := context.WithCancel(ctx)

			stg, err := buildStore(cfg)
			if err != nil {
				log.Fatalf("Failed to init governance store: %v", err)
			}

			gw, err := buildGateway(cfg)
			if err != nil {
				log.Fatalf("Failed to init execution gateway: %v", err)
			}

			keyStore, err := keystore.NewLevelDBKeyStore(cfg.KeyStoreDBDSN)
			if err != nil {
				log.Fatalf("Failed to init key store: %v", err)
			}
			keyPair, err := keyStore.LoadKeys(cfg.NodeName)
			if err != nil {
				log.Fatalf("Failed to load node keys (run gen_keys first): %v", err)
			}

			sink, err := buildPublisher(cfg)
			if err != nil {
				log.Fatalf("Failed to init audit event sink: %v", err)
			}
			publisher := events.NewSigningPublisher(sink, keyPair.Priv)

			nodeLogger := logger.NewLogger(cfg.NodeName)

			sp := &services.ServiceProvider{}
			sp.SetLogger(nodeLogger)
			sp.SetStore(stg)
			sp.SetGateway(gw)
			sp.SetPublisher(publisher)
			sp.SetKeyStore(keyStore)
			sp.SetSignersService(signers.NewSignersService(stg, publisher, nodeLogger,
				cfg.Lifecycle.FlagThreshold(), cfg.Lifecycle.RemovalThreshold()))

			engineService := engine.NewEngineService(sp)
			multisigService := multisig.NewMultisigService(sp)
			schedulerService := scheduler.NewSchedulerService(sp, cfg.Scheduler.Interval())

			server := &http_api.RESTApiProvider{}
			if err := server.NewServer(cfg, engineService, multisigService, schedulerService, sp); err != nil {
				log.Fatalf("Failed to init HTTP server: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				log.Println("Received signal, stopping node...")
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
				defer shutdownCancel()
				if err := server.Stop(shutdownCtx); err != nil {
					log.Printf("Failed to stop HTTP server gracefully: %v", err)
				}
				if err := publisher.Close(); err != nil {
					log.Printf("Failed to close audit event sink: %v", err)
				}
				if err := stg.Close(); err != nil {
					log.Printf("Failed to close governance store: %v", err)
				}

				log.Println("Node stopped, exiting")
				os.Exit(0)
			}()

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("HTTP server error: %v", err)
				}
			}()

			nodeLogger.Log("governance node listening on %s", cfg.ListenAddr)
			if cfg.Scheduler.Enabled {
				nodeLogger.Log("starting to sweep expired proposals and idle signers...")
				if err := schedulerService.Run(ctx); err != nil {
					log.Fatalf("error while running maintenance sweeps: %v", err)
				}
				nodeLogger.Log("sweeping is stopped")
			} else {
				<-ctx.Done()
			}
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "fusee_d",
	Short: "fusee governance node daemon",
}

func main() {
	rootCmd.AddCommand(
		startNodeCommand(),
		genKeyPairCommand(),
		initConfigCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}
