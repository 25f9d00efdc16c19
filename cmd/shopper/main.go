package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/ucp-shopper/internal/agent"
	"github.com/angelmondragon/ucp-shopper/internal/checkout"
	"github.com/angelmondragon/ucp-shopper/pkg/config"
	"github.com/angelmondragon/ucp-shopper/pkg/env"
	"github.com/angelmondragon/ucp-shopper/pkg/logger"
	"github.com/angelmondragon/ucp-shopper/pkg/metrics"
	"github.com/angelmondragon/ucp-shopper/pkg/ucp"
)

// shopper runs a full checkout against the merchant named by
// UCPSHOPPER_MERCHANT_URL: discovery, session creation, fulfillment
// negotiation, and completion with the sandbox payment handler.
func main() {
	logg := logger.New(logger.Options{ServiceName: "shopper"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopper",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.UCP.MerchantURL == "" {
		logg.Error(context.Background(), "UCPSHOPPER_MERCHANT_URL is required", nil)
		os.Exit(1)
	}

	requestMetrics := metrics.NewRequestMetrics(prometheus.DefaultRegisterer)

	client, err := ucp.NewClient(cfg.UCP,
		ucp.WithLogger(logg),
		ucp.WithMetrics(requestMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create merchant client", err)
		os.Exit(1)
	}
	defer client.Close()

	service, err := checkout.NewService(client, logg, cfg.UCP.DefaultCurrency)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	shopper, err := agent.New(service, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create agent", err)
		os.Exit(1)
	}

	ctx := logg.WithMerchant(context.Background(), cfg.UCP.MerchantURL)
	if !run(ctx, logg, shopper, cfg.UCP.MerchantURL) {
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, shopper *agent.Agent, merchantURL string) bool {
	discovery, failure := shopper.Discover(ctx, agent.DiscoverRequest{MerchantURL: merchantURL})
	if failure != nil {
		return report(ctx, logg, "discover", failure)
	}
	emit(ctx, logg, "discover", discovery)
	if len(discovery.PaymentHandlers) == 0 {
		logg.Warn(ctx, "merchant declares no payment handlers, continuing with defaults")
	}

	created, failure := shopper.CreateCheckout(ctx, agent.CreateCheckoutRequest{
		MerchantURL: merchantURL,
		Items: []agent.ItemRequest{
			{ID: "item_123", Title: "Demo Item", Quantity: 1},
		},
		BuyerName:  "Test Buyer",
		BuyerEmail: "buyer@example.com",
	})
	if failure != nil {
		return report(ctx, logg, "create_checkout", failure)
	}
	emit(ctx, logg, "create_checkout", created)

	ctx = logg.WithCheckoutID(ctx, created.CheckoutID)

	if code := env.Get("UCPSHOPPER_DISCOUNT_CODE", ""); code != "" {
		updated, failure := shopper.UpdateCheckout(ctx, agent.UpdateCheckoutRequest{
			MerchantURL:   merchantURL,
			CheckoutID:    created.CheckoutID,
			DiscountCodes: []string{code},
		})
		if failure != nil {
			return report(ctx, logg, "update_checkout", failure)
		}
		emit(ctx, logg, "update_checkout", updated)
	}

	negotiated, failure := shopper.NegotiateFulfillment(ctx, agent.FulfillmentRequest{
		MerchantURL: merchantURL,
		CheckoutID:  created.CheckoutID,
	})
	if failure != nil {
		return report(ctx, logg, "negotiate_fulfillment", failure)
	}
	emit(ctx, logg, "negotiate_fulfillment", negotiated)

	completed, failure := shopper.CompleteCheckout(ctx, agent.CompleteCheckoutRequest{
		MerchantURL: merchantURL,
		CheckoutID:  created.CheckoutID,
	})
	if failure != nil {
		return report(ctx, logg, "complete_checkout", failure)
	}
	emit(ctx, logg, "complete_checkout", completed)
	return true
}

func emit(ctx context.Context, logg *logger.Logger, operation string, result any) {
	payload, err := json.Marshal(result)
	if err != nil {
		logg.Error(ctx, "failed to encode result", err)
		return
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"operation": operation,
		"result":    json.RawMessage(payload),
	}), "operation succeeded")
}

func report(ctx context.Context, logg *logger.Logger, operation string, failure *agent.ErrorResult) bool {
	logg.Error(logg.WithFields(ctx, map[string]any{
		"operation": operation,
		"code":      failure.Code,
		"retryable": failure.Retryable,
		"details":   failure.Details,
	}), failure.Error, nil)
	return false
}
