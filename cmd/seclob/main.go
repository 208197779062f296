package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"seclob/internal/api"
	"seclob/internal/catalog"
	"seclob/internal/config"
	"seclob/internal/logging"
	"seclob/internal/normalize"

	"github.com/joho/godotenv"
)

func main() {
	var serve bool
	var addr string
	var search string
	var listCategories bool
	var help bool

	flag.BoolVar(&serve, "serve", false, "Run HTTP server mode")
	flag.StringVar(&addr, "addr", ":8080", "Address to bind in server mode")
	flag.StringVar(&search, "search", "", "Print products matching a search term and exit")
	flag.StringVar(&search, "s", "", "Print products matching a search term (short form)")
	flag.BoolVar(&listCategories, "categories", false, "Print the category tree and exit")
	flag.BoolVar(&help, "help", false, "Show help message")
	flag.BoolVar(&help, "h", false, "Show help message")
	flag.Parse()

	if help {
		showHelp()
		return
	}

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	ctx := context.Background()
	shutdownLogs, err := logging.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer func() {
		_ = shutdownLogs(context.Background())
	}()

	if serve {
		if err := runServer(cfg, addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	client, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("failed to create backend client: %v", err)
	}

	if listCategories {
		if err := printCategories(ctx, client); err != nil {
			log.Fatalf("failed to list categories: %v", err)
		}
		return
	}

	if search != "" {
		if err := printProducts(ctx, client, cfg, search); err != nil {
			log.Fatalf("failed to search products: %v", err)
		}
		return
	}

	fmt.Println("Nothing to do (use -serve for web mode)")
	showHelp()
	os.Exit(1)
}

func printCategories(ctx context.Context, client backendClient) error {
	tree := catalog.NewTree(client)
	if err := tree.LoadCategories(ctx); err != nil {
		return err
	}
	// Expand everything so the render includes subcategories.
	for _, node := range tree.Render() {
		tree.SelectCategory(ctx, node.Name)
	}
	for _, node := range tree.Render() {
		fmt.Printf("%s (%s)\n", node.Name, node.ID)
		for _, sub := range node.SubCategories {
			fmt.Printf("  - %s (%s)\n", sub.Name, sub.ID)
		}
		if node.NoSubCategories {
			fmt.Println("  (no subcategories)")
		}
	}
	return nil
}

func printProducts(ctx context.Context, client backendClient, cfg *config.Config, search string) error {
	raw, err := client.Products(ctx, api.ProductQuery{Search: search, Page: 1, Limit: cfg.Catalog.PageSize})
	if err != nil {
		return err
	}
	page := normalize.Products(ctx, raw)
	fmt.Printf("%d products match %q:\n", page.Total, search)
	for _, product := range page.Items {
		fmt.Printf("- %s: $%.2f (%d in stock)\n", product.Name, product.DisplayPrice(), product.DisplayStock())
	}
	return nil
}

func showHelp() {
	fmt.Println("seclob - storefront for the Seclob commerce API")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  seclob -serve [-addr :8080]   Run the web frontend")
	fmt.Println("  seclob -search <term>         Print matching products")
	fmt.Println("  seclob -categories            Print the category tree")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SECLOB_BACKEND_URL   Backend API base URL (default http://localhost:3001)")
	fmt.Println("  SECLOB_PAGE_SIZE     Products per page (default 10)")
	fmt.Println("  SECLOB_MOCKS         Set to true for offline canned data")
	fmt.Println("  REDIS_URL            Use redis instead of file cache")
}
