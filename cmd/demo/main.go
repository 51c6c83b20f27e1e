// Command demo runs a fixed marketplace script against a fresh registry and
// prints what happens: two butchers open stores, stock them, move a product
// between stores, a customer buys, and the results are searched. The user
// and session tables are dumped at the end.
//
//	go run ./cmd/demo -storage sqlite -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/marketplace/internal/apperror"
	"github.com/sakif/marketplace/internal/auth"
	"github.com/sakif/marketplace/internal/config"
	"github.com/sakif/marketplace/internal/server"
	"github.com/sakif/marketplace/internal/service"
)

func main() {
	driver := flag.String("storage", config.DriverMemory, "storage driver: memory or sqlite")
	verbose := flag.Bool("v", false, "log at debug level (includes table dumps)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), *driver, logger); err != nil {
		logger.Error("demo failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, driver string, logger *slog.Logger) error {
	repo, err := server.OpenRepository(driver)
	if err != nil {
		return err
	}
	defer repo.Close()

	passwords, err := auth.NewPasswordServiceWithCost(auth.DefaultCost)
	if err != nil {
		return err
	}
	m := service.NewMarketplace(repo, passwords, logger)

	s := &script{}

	s.step("register Ana", func() error {
		_, err := m.Register(ctx, "Ana", "ana@example.com", "picanha123")
		return err
	})
	s.expectFail("register Ana again", apperror.ErrConflict, func() error {
		_, err := m.Register(ctx, "Ana Clone", "ana@example.com", "other")
		return err
	})
	s.step("register Bruno", func() error {
		_, err := m.Register(ctx, "Bruno", "bruno@example.com", "linguica456")
		return err
	})
	s.expectFail("login with a wrong password", apperror.ErrUnauthorized, func() error {
		_, err := m.Login(ctx, "ana@example.com", "nope")
		return err
	})

	var ana, bruno string
	s.step("login Ana", func() error {
		session, err := m.Login(ctx, "ana@example.com", "picanha123")
		if err == nil {
			ana = session.Token
		}
		return err
	})
	s.step("login Bruno", func() error {
		session, err := m.Login(ctx, "bruno@example.com", "linguica456")
		if err == nil {
			bruno = session.Token
		}
		return err
	})

	var bovinos, suinos int64
	s.step("Ana opens Bovinos", func() error {
		store, err := m.CreateStore(ctx, ana, "Bovinos")
		if err == nil {
			bovinos = store.ID
		}
		return err
	})
	s.step("Ana opens Suínos", func() error {
		store, err := m.CreateStore(ctx, ana, "Suínos")
		if err == nil {
			suinos = store.ID
		}
		return err
	})
	s.expectFail("Bruno opens Bovinos", apperror.ErrConflict, func() error {
		_, err := m.CreateStore(ctx, bruno, "Bovinos")
		return err
	})

	var maturada, suina int64
	s.step("add Picanha Maturada", func() error {
		p, err := m.AddProduct(ctx, ana, bovinos, "Picanha Maturada", 89.9)
		if err == nil {
			maturada = p.ID
		}
		return err
	})
	s.step("add Picanha Suína (to the wrong store)", func() error {
		p, err := m.AddProduct(ctx, ana, bovinos, "Picanha Suína", 39.9)
		if err == nil {
			suina = p.ID
		}
		return err
	})
	s.expectFail("Bruno adds to Bovinos", apperror.ErrForbidden, func() error {
		_, err := m.AddProduct(ctx, bruno, bovinos, "Cupim", 60)
		return err
	})

	s.step("stock +10, +5", func() error {
		if _, err := m.AddStock(ctx, ana, bovinos, maturada, 10); err != nil {
			return err
		}
		qty, err := m.AddStock(ctx, ana, bovinos, maturada, 5)
		fmt.Printf("    Picanha Maturada stock: %d\n", qty)
		return err
	})
	s.step("stock Picanha Suína +8", func() error {
		_, err := m.AddStock(ctx, ana, bovinos, suina, 8)
		return err
	})

	s.step("move Picanha Suína to Suínos", func() error {
		moved, err := m.TransferProduct(ctx, ana, bovinos, suinos, suina)
		if err == nil {
			fmt.Printf("    now product %d in store %d; exists: %v; old slot exists: %v\n",
				moved.ID, suinos, m.ProductExists(ctx, suinos, moved.ID), m.ProductExists(ctx, bovinos, suina))
		}
		return err
	})
	s.expectFail("transfer within one store", apperror.ErrSameStore, func() error {
		_, err := m.TransferProduct(ctx, ana, bovinos, bovinos, maturada)
		return err
	})

	s.expectFail("Bruno buys 20", apperror.ErrInsufficientStock, func() error {
		_, err := m.Purchase(ctx, bruno, bovinos, maturada, 20)
		return err
	})
	s.step("Bruno buys 3", func() error {
		sale, err := m.Purchase(ctx, bruno, bovinos, maturada, 3)
		if err == nil {
			fmt.Printf("    sale %d: %d x %.2f = %.2f\n", sale.ID, sale.Quantity, sale.UnitPrice, sale.Total())
		}
		return err
	})

	s.step(`search products "Picanha"`, func() error {
		found, err := m.SearchProducts(ctx, "Picanha")
		for _, p := range found {
			fmt.Printf("    store %d product %d: %s (%.2f, %d in stock)\n", p.StoreID, p.ID, p.Name, p.Price, p.Quantity)
		}
		return err
	})
	s.step(`search stores "nos"`, func() error {
		found, err := m.SearchStores(ctx, "nos")
		for _, st := range found {
			fmt.Printf("    store %d: %s (owner %s)\n", st.ID, st.Name, st.Owner.Email)
		}
		return err
	})

	s.step("dump tables", func() error {
		if err := m.DumpUsers(ctx); err != nil {
			return err
		}
		return m.DumpSessions(ctx)
	})

	fmt.Printf("\n%d passed, %d failed\n", s.passed, s.failed)
	if s.failed > 0 {
		return fmt.Errorf("%d demo steps failed", s.failed)
	}
	return nil
}

// script prints one PASS/FAIL line per step and keeps score.
type script struct {
	passed, failed int
}

func (s *script) step(name string, fn func() error) {
	if err := fn(); err != nil {
		s.failed++
		fmt.Printf("FAIL %s: %v\n", name, err)
		return
	}
	s.passed++
	fmt.Printf("PASS %s\n", name)
}

func (s *script) expectFail(name string, want error, fn func() error) {
	err := fn()
	if !errors.Is(err, want) {
		s.failed++
		fmt.Printf("FAIL %s: got %v, want %v\n", name, err, want)
		return
	}
	s.passed++
	fmt.Printf("PASS %s (rejected: %v)\n", name, err)
}
