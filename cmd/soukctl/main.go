// soukctl is a small command-line client for the marketplace API. It drives
// the same SDK the frontends use, with session state persisted to a local
// JSON file, so live endpoints and mock mode can be exercised end to end
// without a browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/keciramounir97/souk-boudouaou/internal/client"
	"github.com/keciramounir97/souk-boudouaou/internal/config"
	"github.com/keciramounir97/souk-boudouaou/internal/dataservice"
	"github.com/keciramounir97/souk-boudouaou/internal/models"
	"github.com/keciramounir97/souk-boudouaou/pkg/kvstore"
	"github.com/keciramounir97/souk-boudouaou/pkg/logger"
)

const usage = `Usage: soukctl <command> [args]

Commands:
  login <email> <password>       authenticate and persist the session
  logout                         revoke and clear the session
  whoami                         print the persisted user record
  listings [page]                list published listings
  search <query>                 search listings
  listing <id>                   show one listing
  create <title> <category> <pricePerKg>
                                 create a listing
  delete <id>                    delete a listing
  my-listings                    list your own listings
  orders                         list your orders
  mock <on|off|clear> [listings|users]
                                 toggle mock-mode overrides
  mock-status                    print resolved mock flags
`

func main() {
	_ = godotenv.Load()
	log := logger.New()

	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	store, err := kvstore.NewFileStore(cfg.Client.StateFile)
	if err != nil {
		fatal(err)
	}

	c, err := client.New(client.Options{
		BaseURL:     cfg.Client.APIURL,
		Store:       store,
		Development: cfg.Client.Development,
		Logger:      log,
	})
	if err != nil {
		fatal(err)
	}

	svc, err := dataservice.New(dataservice.Options{
		Client:       c,
		MockAll:      cfg.Client.UseMock,
		MockListings: cfg.Client.MockListings,
		MockUsers:    cfg.Client.MockUsers,
		Logger:       log,
	})
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	if err := run(ctx, svc, args); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, svc *dataservice.Service, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: soukctl login <email> <password>")
		}
		session, err := svc.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return printJSON(session.User)

	case "logout":
		return svc.Logout(ctx)

	case "whoami":
		user, ok := svc.CurrentUser()
		if !ok {
			return fmt.Errorf("not logged in")
		}
		return printJSON(user)

	case "listings":
		filter := models.ListingFilter{}
		if len(rest) > 0 {
			filter.Page, _ = strconv.Atoi(rest[0])
		}
		page, err := svc.GetListings(ctx, filter)
		if err != nil {
			return err
		}
		return printJSON(page)

	case "search":
		if len(rest) != 1 {
			return fmt.Errorf("usage: soukctl search <query>")
		}
		page, err := svc.SearchListings(ctx, rest[0], models.ListingFilter{})
		if err != nil {
			return err
		}
		return printJSON(page)

	case "listing":
		if len(rest) != 1 {
			return fmt.Errorf("usage: soukctl listing <id>")
		}
		listing, err := svc.GetListingDetails(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(listing)

	case "create":
		if len(rest) != 3 {
			return fmt.Errorf("usage: soukctl create <title> <category> <pricePerKg>")
		}
		listing, err := svc.CreateListing(ctx, dataservice.Form{
			"title":      rest[0],
			"category":   rest[1],
			"pricePerKg": rest[2],
		})
		if err != nil {
			return err
		}
		return printJSON(listing)

	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: soukctl delete <id>")
		}
		return svc.DeleteListing(ctx, rest[0])

	case "my-listings":
		page, err := svc.GetMyListings(ctx, models.ListingFilter{})
		if err != nil {
			return err
		}
		return printJSON(page)

	case "orders":
		orders, err := svc.GetUserOrders(ctx)
		if err != nil {
			return err
		}
		return printJSON(orders)

	case "mock":
		if len(rest) == 0 {
			return fmt.Errorf("usage: soukctl mock <on|off|clear> [listings|users]")
		}
		key := dataservice.KeyUseMock
		if len(rest) > 1 {
			switch rest[1] {
			case "listings":
				key = dataservice.KeyUseMockListings
			case "users":
				key = dataservice.KeyUseMockUsers
			default:
				return fmt.Errorf("unknown resource %q", rest[1])
			}
		}
		switch rest[0] {
		case "on":
			return svc.SetMockOverride(key, true)
		case "off":
			return svc.SetMockOverride(key, false)
		case "clear":
			return svc.ClearMockOverride(key)
		}
		return fmt.Errorf("unknown mock action %q", rest[0])

	case "mock-status":
		return printJSON(map[string]bool{
			"mock":          svc.MockEnabled(),
			"mock_listings": svc.MockListingsEnabled(),
			"mock_users":    svc.MockUsersEnabled(),
		})
	}

	return fmt.Errorf("unknown command %q", cmd)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "soukctl:", err)
	os.Exit(1)
}
