package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cafe-system/internal/billing"
	"cafe-system/internal/config"
	"cafe-system/internal/database"
	"cafe-system/internal/logger"
	"cafe-system/internal/menu"
	"cafe-system/internal/messaging"
	"cafe-system/internal/models"
	"cafe-system/internal/order"
	"cafe-system/internal/render"
	"cafe-system/internal/session"
	"cafe-system/internal/store"
)

func main() {
	// Parse command line flags
	var (
		mode       = flag.String("mode", "", "Operation mode (bill, history, clear)")
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
		customer   = flag.String("customer", "", "Customer name")
		phone      = flag.String("phone", "", "Customer phone number")
		items      = flag.String("items", "", "Order items as name:qty pairs, comma separated")
		out        = flag.String("out", "bill.pdf", "Output path for the rendered bill")
		at         = flag.String("at", "", "Override order time (RFC3339), defaults to now")
		all        = flag.Bool("all", false, "Clear history for all customers (clear mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("cafe-billing")
	ctx := context.Background()

	now := time.Now()
	if *at != "" {
		now, err = time.Parse(time.RFC3339, *at)
		if err != nil {
			log.Error("validation_failed", "Invalid --at timestamp", err, nil)
			os.Exit(1)
		}
	}

	switch *mode {
	case "bill":
		if *customer == "" || *items == "" {
			log.Error("validation_failed", "--customer and --items are required for bill mode", nil, nil)
			os.Exit(1)
		}
		if err := runBill(ctx, cfg, log, *customer, *phone, *items, *out, now); err != nil {
			log.Error("bill_failed", "Bill generation failed", err, nil)
			os.Exit(1)
		}
	case "history":
		if *customer == "" {
			log.Error("validation_failed", "--customer is required for history mode", nil, nil)
			os.Exit(1)
		}
		if err := runHistory(ctx, cfg, log, *customer); err != nil {
			log.Error("history_failed", "History lookup failed", err, nil)
			os.Exit(1)
		}
	case "clear":
		if err := runClear(ctx, cfg, log, *customer, *all); err != nil {
			log.Error("clear_failed", "History clear failed", err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), nil, nil)
		os.Exit(1)
	}
}

// runBill drives the full pipeline: session, menu, order, finalize, render,
// persist, notify.
func runBill(ctx context.Context, cfg *config.Config, log *logger.Logger, customer, phone, itemsSpec, out string, now time.Time) error {
	kind := session.Resolve(now, cfg.Cafe)
	if kind == session.Closed {
		return fmt.Errorf("cafe is closed; working hours %s-%s and %s-%s",
			cfg.Cafe.DayStart, cfg.Cafe.DayEnd, cfg.Cafe.EveningStart, cfg.Cafe.EveningEnd)
	}
	log.Info("session_resolved", fmt.Sprintf("Serving the %s menu", kind), map[string]any{"session": string(kind)})

	catalog := menu.NewCatalog(cfg.Menu)
	menuItems, err := catalog.Load(kind)
	if err != nil {
		return err
	}

	acc := order.New()
	selections, err := parseItems(itemsSpec)
	if err != nil {
		return err
	}
	for _, sel := range selections {
		item, ok := menu.Find(menuItems, sel.name)
		if !ok {
			return fmt.Errorf("%q is not on the %s menu", sel.name, kind)
		}
		if err := acc.Add(item, sel.quantity); err != nil {
			return err
		}
	}

	engine := billing.NewEngine(cfg.Cafe)
	bill, err := engine.Finalize(acc, customer, phone, now)
	if err != nil {
		return err
	}
	log.Info("bill_finalized", "Bill computed", map[string]any{
		"customer_name": bill.CustomerName,
		"item_count":    bill.ItemCount,
		"grand_total":   bill.GrandTotal.StringFixed(2),
	})

	renderer := render.New(cfg.Cafe)
	doc, err := renderer.Render(bill)
	if errors.Is(err, render.ErrRender) {
		// Render infrastructure failures are retriable once.
		log.Error("render_retry", "Retrying bill render", err, nil)
		doc, err = renderer.Render(bill)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write bill document: %w", err)
	}
	log.Info("bill_rendered", "Bill document written", map[string]any{"path": out, "bytes": len(doc)})

	// The customer keeps their bill even when history persistence fails;
	// store trouble is surfaced, not allowed to void the purchase record.
	st, err := openStore(cfg, log)
	if err != nil {
		log.Error("store_unavailable", "History not recorded", err, nil)
		return nil
	}
	defer st.Close()

	prev, err := st.Lookup(ctx, customer)
	if err != nil {
		// The greeting is optional, but the failure is not allowed to pass
		// silently.
		log.Error("lookup_failed", "Could not read customer history", err, map[string]any{
			"customer_name": customer,
		})
	} else if last := prev.LastVisit(); last != nil {
		log.Info("returning_customer", fmt.Sprintf("Welcome back, %s", customer), map[string]any{
			"last_visit": last.Timestamp.Format("Monday, 02/01/2006"),
			"visits":     len(prev.History),
		})
	}

	if err := st.Append(ctx, customer, bill); err != nil {
		log.Error("store_unavailable", "History not recorded", err, nil)
		return nil
	}
	log.Info("history_appended", "Bill added to customer history", map[string]any{"customer_name": customer})

	if cfg.HasRabbitMQ() {
		publishBillEvent(ctx, cfg, log, &bill)
	}

	return nil
}

// runHistory prints the customer's stored history as JSON.
func runHistory(ctx context.Context, cfg *config.Config, log *logger.Logger, customer string) error {
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	record, err := st.Lookup(ctx, customer)
	if err != nil {
		return err
	}
	if record == nil {
		fmt.Printf("No history for %q\n", customer)
		return nil
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// runClear removes history for one customer, or everyone with --all.
func runClear(ctx context.Context, cfg *config.Config, log *logger.Logger, customer string, all bool) error {
	if !all && customer == "" {
		return fmt.Errorf("--customer or --all is required for clear mode")
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if all {
		if err := st.ClearAll(ctx); err != nil {
			return err
		}
		log.Info("history_cleared", "Cleared history for all customers", nil)
		return nil
	}

	if err := st.Clear(ctx, customer); err != nil {
		return err
	}
	log.Info("history_cleared", "Cleared customer history", map[string]any{"customer_name": customer})
	return nil
}

// openStore builds the configured history backend.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		if err := db.RunMigrations(context.Background(), "migrations"); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return store.NewPostgres(db), nil
	default:
		return store.OpenFile(cfg.Store.Path)
	}
}

// publishBillEvent notifies the presentation layer; delivery failures are
// logged, never fatal.
func publishBillEvent(ctx context.Context, cfg *config.Config, log *logger.Logger, bill *models.BillBreakdown) {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("publish_failed", "Could not connect to RabbitMQ", err, nil)
		return
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn, log)
	if err := publisher.PublishBill(ctx, models.NewBillFinalizedEvent(bill)); err != nil {
		log.Error("publish_failed", "Could not publish bill event", err, nil)
	}
}

type selection struct {
	name     string
	quantity int
}

// parseItems parses "Cappuccino:2,Masala Tea" style specs; quantity
// defaults to 1 when omitted.
func parseItems(itemsSpec string) ([]selection, error) {
	var selections []selection
	for _, entry := range strings.Split(itemsSpec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name := entry
		quantity := 1
		if i := strings.LastIndex(entry, ":"); i >= 0 {
			qty, err := strconv.Atoi(strings.TrimSpace(entry[i+1:]))
			if err != nil {
				return nil, fmt.Errorf("invalid quantity in %q: %w", entry, err)
			}
			name = strings.TrimSpace(entry[:i])
			quantity = qty
		}
		if name == "" {
			return nil, fmt.Errorf("missing item name in %q", entry)
		}
		selections = append(selections, selection{name: name, quantity: quantity})
	}
	if len(selections) == 0 {
		return nil, fmt.Errorf("no items given")
	}
	return selections, nil
}
