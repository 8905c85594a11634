// Command demo-client books a service or wash against a running gateway,
// paying with the development signer.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autocare-x402-gateway/internal/client"
	"autocare-x402-gateway/internal/core/domain"
	"autocare-x402-gateway/pkg/logger"
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "gateway base URL")
		kind     = flag.String("kind", "wash", "booking kind: service or wash")
		subtype  = flag.String("type", "", "service or wash type (default: the kind's default)")
		vehicle  = flag.String("vehicle", "veh-demo-1", "vehicle id")
		branch   = flag.String("branch", "branch-demo-1", "branch id")
		operator = flag.String("operator", "op-demo-1", "operator id")
		customer = flag.String("customer", "", "customer id for loyalty (optional)")
		desc     = flag.String("description", "", "service description (service only)")
		payer    = flag.String("payer", "0x0000000000000000000000000000000000000001", "payer address put in the demo proof")
		underpay = flag.String("underpay", "0", "amount to short the payment by, e.g. 1.5")
		retries  = flag.Int("retries", 0, "re-sign and retry this many times after a failure")
		timeout  = flag.Duration("timeout", 90*time.Second, "overall timeout")
		level    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	log := logger.New(*level, true)

	k := domain.Kind(*kind)
	if !k.Valid() {
		fmt.Fprintf(os.Stderr, "unknown kind %q\n", *kind)
		os.Exit(2)
	}
	short, err := domain.ParseAmount(*underpay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -underpay: %v\n", err)
		os.Exit(2)
	}

	if *subtype == "" {
		*subtype, _ = domain.ResolveSubtype(k, "")
	}

	body := map[string]interface{}{
		"vehicleId":   *vehicle,
		"branchId":    *branch,
		"operatorId":  *operator,
		k.TypeField(): *subtype,
	}
	if *customer != "" {
		body["customerId"] = *customer
	}
	if k == domain.KindService && *desc != "" {
		body["description"] = *desc
	}

	signer := client.NewDevSigner(*payer)
	signer.Underpay = short

	orch := client.NewOrchestrator(*baseURL, &http.Client{Timeout: *timeout}, signer, log)
	orch.OnStateChange(func(from, to client.State) {
		log.Info().Str("from", string(from)).Str("to", string(to)).Msg("state")
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	go func() {
		<-ctx.Done()
		orch.Cancel()
	}()

	out, err := orch.Start(ctx, k, body)
	for attempt := 0; err != nil && !errors.Is(err, client.ErrCancelled) && attempt < *retries; attempt++ {
		log.Warn().Err(err).Int("attempt", attempt+1).Msg("retrying with a fresh proof")
		out, err = orch.Retry(ctx)
	}
	if err != nil {
		if r := orch.Receipt(); r != nil {
			log.Error().Str("tx_id", r.TransactionID).Msg("payment settled but booking failed; keep this receipt")
		}
		fmt.Fprintf(os.Stderr, "booking failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}
