package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/projetproduits/storefront/internal/admin"
	"github.com/projetproduits/storefront/internal/browse"
	"github.com/projetproduits/storefront/internal/cart"
	"github.com/projetproduits/storefront/internal/client"
	"github.com/projetproduits/storefront/internal/config"
	"github.com/projetproduits/storefront/internal/health"
	"github.com/projetproduits/storefront/internal/metrics"
	"github.com/projetproduits/storefront/internal/models"
	"github.com/projetproduits/storefront/internal/session"
	"github.com/projetproduits/storefront/internal/storage"
	"github.com/projetproduits/storefront/internal/telemetry"
)

type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	session *session.Manager
	homme   *client.CatalogClient
	femme   *client.CatalogClient
	ml      *client.MLClient
	browse  *browse.Service
	admin   *admin.Service
	cart    *cart.Store
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	if !flag.Parsed() {
		flag.Parse()
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Env)
	if err != nil {
		slog.Error("❌ Failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
		}
	}()

	store, err := storage.NewFileStore(cfg.Storage.Dir)
	if err != nil {
		slog.Error("❌ Failed to open local storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sessionManager := session.NewManager(cfg.Services.AuthURL, cfg.HTTP.Timeout, store, logger)
	hommeClient := client.NewCatalogClient(models.SegmentHomme, cfg.Services.HommeURL, cfg.HTTP.Timeout, sessionManager.AccessToken, logger)
	femmeClient := client.NewCatalogClient(models.SegmentFemme, cfg.Services.FemmeURL, cfg.HTTP.Timeout, sessionManager.AccessToken, logger)
	mlClient := client.NewMLClient(cfg.Services.MLURL, cfg.HTTP.Timeout, sessionManager.AccessToken, logger)
	authClient := client.NewAuthClient(cfg.Services.AuthURL, cfg.HTTP.Timeout, sessionManager.AccessToken, logger)
	browseService := browse.NewService(hommeClient, femmeClient, logger)
	adminService := admin.NewService(hommeClient, femmeClient, authClient, logger)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		session: sessionManager,
		homme:   hommeClient,
		femme:   femmeClient,
		ml:      mlClient,
		browse:  browseService,
		admin:   adminService,
		cart:    cart.NewStore(),
	}

	command, rest := args[0], args[1:]

	// login/register establish a session themselves; status and
	// metrics work anonymously.
	switch command {
	case "login", "register", "status", "metrics", "help":
	default:
		a.session.Restore(ctx)
	}

	if err := a.run(ctx, command, rest); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {

	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("Logged out.")

		return nil
	case "whoami":
		return a.cmdWhoami()
	case "browse":
		return a.cmdBrowse(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx, args)
	case "stats":
		return a.cmdStats(ctx)
	case "shop":
		return a.cmdShop(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	case "predict":
		return a.cmdPredict(ctx, args)
	case "predict-save":
		return a.cmdPredictSave(ctx, args)
	case "status":
		return a.cmdStatus(ctx)
	case "metrics":
		return metrics.Dump(os.Stdout)
	case "help":
		usage()

		return nil
	default:
		usage()

		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	_ = fs.Parse(args)

	result, err := a.session.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	if !result.Success {
		fmt.Println("Login failed:", result.Message)

		return nil
	}

	fmt.Printf("Welcome back, %s (%s / %s)\n", result.User.Username, result.User.Genre, result.User.Role)

	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	confirm := fs.String("confirm", "", "password confirmation")
	genre := fs.String("genre", "", "HOMME or FEMME")
	_ = fs.Parse(args)

	// same pre-network check the registration form does
	if *confirm != "" && *confirm != *password {
		return fmt.Errorf("passwords do not match")
	}

	result, err := a.session.Register(ctx, *username, *email, *password, models.Genre(*genre))
	if err != nil {
		return err
	}

	if !result.Success {
		fmt.Println("Registration failed:", result.Message)

		return nil
	}

	fmt.Printf("Account created. Welcome, %s!\n", result.User.Username)

	return nil
}

func (a *app) cmdWhoami() error {

	user := a.session.CurrentUser()
	if user == nil || !a.session.IsAuthenticated() {
		fmt.Println("Not logged in.")

		return nil
	}

	fmt.Printf("%s <%s> genre=%s role=%s\n", user.Username, user.Email, user.Genre, user.Role)

	if expires, ok := a.session.TokenExpiresAt(); ok {
		fmt.Printf("token expires %s\n", expires.Format(time.RFC3339))
	}

	return nil
}

func (a *app) cmdBrowse(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	tab := fs.String("tab", "all", "all, homme or femme")
	query := fs.String("q", "", "search term")
	category := fs.String("cat", "", "category filter")
	sortBy := fs.String("sort", "nom", "nom, prix-asc or prix-desc")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 0, "page size, 0 for everything")
	_ = fs.Parse(args)

	result := a.browse.FetchBoth(ctx)
	if result.Failed() {
		return result.HommeErr
	}

	var products []models.Product

	switch *tab {
	case "homme":
		products = result.Homme
	case "femme":
		products = result.Femme
	default:
		products = browse.Blend(result.Homme, result.Femme)
	}

	products = browse.Search(products, *query)
	products = browse.FilterCategory(products, *category)
	products = browse.SortProducts(products, browse.ParseSort(*sortBy))

	pageData := browse.Paginate(products, *page, *size)
	printProducts(pageData.Data)
	fmt.Printf("%d of %d products (page %d)\n", len(pageData.Data), pageData.Total, pageData.Page)

	if result.HommeErr != nil {
		fmt.Println("note: homme catalog unavailable")
	}

	if result.FemmeErr != nil {
		fmt.Println("note: femme catalog unavailable")
	}

	return nil
}

func (a *app) cmdDashboard(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	segment := fs.String("segment", "", "home segment, defaults to the session genre")
	seed := fs.Int64("seed", 0, "sampling seed, 0 means time-based")
	_ = fs.Parse(args)

	home := models.Segment(strings.ToLower(*segment))
	if !home.Valid() {
		user := a.session.CurrentUser()
		if user != nil && user.Genre == models.GenreFemme {
			home = models.SegmentFemme
		} else {
			home = models.SegmentHomme
		}
	}

	seedValue := *seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seedValue))

	products, err := a.browse.Dashboard(ctx, home, a.cfg.Browse.SampleRate, rng)
	if err != nil {
		return err
	}

	printProducts(products)
	fmt.Printf("%d products (%s view)\n", len(products), home)

	return nil
}

func (a *app) cmdStats(ctx context.Context) error {

	stats := a.browse.Stats(ctx)

	fmt.Printf("homme: %d products, %d users\n", stats.HommeProducts, stats.HommeUsers)
	fmt.Printf("femme: %d products, %d users\n", stats.FemmeProducts, stats.FemmeUsers)

	return nil
}

// cmdShop is the interactive session: the cart lives exactly as long
// as this loop, like a browser tab.
func (a *app) cmdShop(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("shop", flag.ExitOnError)
	_ = fs.Parse(args)

	result := a.browse.FetchBoth(ctx)
	if result.Failed() {
		return result.HommeErr
	}

	products := browse.Blend(result.Homme, result.Femme)
	byID := make(map[int64]models.Product, len(products))

	for _, p := range products {
		byID[p.ID] = p
	}

	printProducts(products)
	fmt.Println(`commands: add <id> | rm <id> | qty <id> <n> | like <id> | cart | clear | checkout | quit`)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			product, ok := lookup(byID, fields, 1)
			if !ok {
				continue
			}

			a.cart.AddToCart(product)
			fmt.Printf("added %q (cart: %s)\n", product.Nom, badge(a.cart.Count()))
			a.recordInteraction(ctx, product, models.InteractionClick)
		case "like":
			product, ok := lookup(byID, fields, 1)
			if !ok {
				continue
			}

			fmt.Printf("you like %q\n", product.Nom)
			a.recordInteraction(ctx, product, models.InteractionLike)
		case "rm":
			if id, err := argInt(fields, 1); err == nil {
				a.cart.RemoveFromCart(id)
			}
		case "qty":
			id, err := argInt(fields, 1)
			if err != nil {
				fmt.Println("usage: qty <id> <n>")

				continue
			}

			n, err := argInt(fields, 2)
			if err != nil {
				fmt.Println("usage: qty <id> <n>")

				continue
			}

			a.cart.UpdateQuantity(id, int(n))
		case "cart":
			a.cart.OpenCart()
			printCart(a.cart)
		case "clear":
			a.cart.ClearCart()
		case "checkout":
			fmt.Printf("Order placed! Total %.2f €\n", a.cart.Total())
			a.cart.ClearCart()
			a.cart.CloseCart()
		case "quit", "exit":
			return nil
		default:
			fmt.Println("unknown command")
		}
	}
}

func (a *app) recordInteraction(ctx context.Context, product models.Product, kind models.InteractionType) {

	user := a.session.CurrentUser()
	if user == nil {
		return
	}

	segment := models.SegmentHomme
	if product.Gender == models.SegmentFemme.Gender() {
		segment = models.SegmentFemme
	}

	req := &models.CreateInteractionRequest{
		UserID:          user.ID,
		ProduitID:       product.ID,
		TypeInteraction: kind,
	}

	if err := a.browse.RecordInteraction(ctx, segment, req); err != nil {
		a.logger.Warn("Failed to record interaction", slog.String("error", err.Error()))
	}
}

func (a *app) cmdAdmin(ctx context.Context, args []string) error {

	if len(args) < 2 {
		return fmt.Errorf("usage: admin <product|user> <list|search|create|update|delete> [flags]")
	}

	kind, action, rest := args[0], args[1], args[2:]

	user := a.session.CurrentUser()
	if user == nil || user.Role != models.RoleAdmin {
		return fmt.Errorf("admin commands require an ADMIN session")
	}

	switch kind {
	case "product":
		return a.adminProduct(ctx, action, rest)
	case "user":
		return a.adminUser(ctx, action, rest)
	default:
		return fmt.Errorf("unknown admin resource %q", kind)
	}
}

func (a *app) adminProduct(ctx context.Context, action string, args []string) error {

	fs := flag.NewFlagSet("admin product "+action, flag.ExitOnError)
	segment := fs.String("segment", "homme", "homme or femme")
	id := fs.Int64("id", 0, "product id")
	nom := fs.String("nom", "", "product name")
	categorie := fs.String("categorie", "", "category")
	prix := fs.Float64("prix", 0, "price")
	description := fs.String("description", "", "description")
	image := fs.String("image", "", "image URL")
	query := fs.String("q", "", "search term")
	yes := fs.Bool("y", false, "skip the delete confirmation")
	_ = fs.Parse(args)

	seg := models.Segment(*segment)

	switch action {
	case "list":
		products, err := a.admin.ListProducts(ctx, seg)
		if err != nil {
			return err
		}

		printProducts(products)

		return nil
	case "search":
		products, err := a.admin.SearchProducts(ctx, seg, *query)
		if err != nil {
			return err
		}

		printProducts(products)

		return nil
	case "create":
		products, err := a.admin.CreateProduct(ctx, seg, &models.CreateProductRequest{
			Nom:         *nom,
			Categorie:   *categorie,
			Prix:        *prix,
			Description: *description,
			ImageURL:    *image,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Product created. %d products in %s catalog.\n", len(products), seg)

		return nil
	case "update":
		products, err := a.admin.UpdateProduct(ctx, seg, *id, &models.UpdateProductRequest{
			Nom:         *nom,
			Categorie:   *categorie,
			Prix:        *prix,
			Description: *description,
			ImageURL:    *image,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Product updated. %d products in %s catalog.\n", len(products), seg)

		return nil
	case "delete":
		if !*yes && !confirm(fmt.Sprintf("Delete product %d from %s?", *id, seg)) {
			fmt.Println("Cancelled.")

			return nil
		}

		products, err := a.admin.DeleteProduct(ctx, seg, *id)
		if err != nil {
			return err
		}

		fmt.Printf("Product deleted. %d products remain.\n", len(products))

		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (a *app) adminUser(ctx context.Context, action string, args []string) error {

	fs := flag.NewFlagSet("admin user "+action, flag.ExitOnError)
	segment := fs.String("segment", "homme", "homme or femme")
	id := fs.Int64("id", 0, "user id")
	nom := fs.String("nom", "", "name")
	email := fs.String("email", "", "email")
	age := fs.Int("age", 0, "age")
	query := fs.String("q", "", "search term")
	yes := fs.Bool("y", false, "skip the delete confirmation")
	_ = fs.Parse(args)

	seg := models.Segment(*segment)

	switch action {
	case "list":
		users, err := a.admin.ListUsers(ctx, seg)
		if err != nil {
			return err
		}

		printUsers(users)

		return nil
	case "search":
		users, err := a.admin.SearchUsers(ctx, seg, *query)
		if err != nil {
			return err
		}

		printUsers(users)

		return nil
	case "create":
		users, err := a.admin.CreateUser(ctx, seg, &models.CreateUserRequest{
			Nom:   *nom,
			Email: *email,
			Age:   *age,
		})
		if err != nil {
			return err
		}

		fmt.Printf("User created. %d users in %s catalog.\n", len(users), seg)

		return nil
	case "update":
		users, err := a.admin.UpdateUser(ctx, seg, *id, &models.UpdateUserRequest{
			Nom:   *nom,
			Email: *email,
			Age:   *age,
		})
		if err != nil {
			return err
		}

		fmt.Printf("User updated. %d users in %s catalog.\n", len(users), seg)

		return nil
	case "delete":
		if !*yes && !confirm(fmt.Sprintf("Delete user %d (%s) from %s?", *id, *email, seg)) {
			fmt.Println("Cancelled.")

			return nil
		}

		result, users, err := a.admin.DeleteUser(ctx, seg, models.CatalogUser{ID: *id, Email: *email})
		if err != nil {
			return err
		}

		fmt.Printf("User deleted. %d users remain.\n", len(users))

		if result.Secondary != nil {
			fmt.Println("note: matching auth record could not be removed")
		}

		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (a *app) cmdPredict(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	name := fs.String("name", "", "product name")
	kind := fs.String("type", "", "product type")
	group := fs.String("group", "", "product group")
	_ = fs.Parse(args)

	prediction, err := a.ml.Predict(ctx, &models.PredictRequest{
		ProductName:  *name,
		ProductType:  *kind,
		ProductGroup: *group,
	})
	if err != nil {
		return err
	}

	fmt.Printf("predicted %s (confidence %.2f)\n", prediction.PredictedGender, prediction.Confidence)

	for gender, probability := range prediction.Probabilities {
		fmt.Printf("  %s: %.3f\n", gender, probability)
	}

	return nil
}

func (a *app) cmdPredictSave(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("predict-save", flag.ExitOnError)
	nom := fs.String("nom", "", "product name")
	categorie := fs.String("categorie", "", "category")
	prix := fs.Float64("prix", 0, "price")
	description := fs.String("description", "", "description")
	image := fs.String("image", "", "image URL")
	_ = fs.Parse(args)

	result, err := a.ml.PredictAndSave(ctx, &models.PredictAndSaveRequest{
		Nom:         *nom,
		Categorie:   *categorie,
		Prix:        *prix,
		Description: *description,
		ImageURL:    *image,
	})
	if err != nil {
		return err
	}

	fmt.Printf("saved %q to the %s catalog (id %d, confidence %.2f)\n",
		result.Product.Nom, result.PredictedGender, result.Product.ID, result.Confidence)

	return nil
}

func (a *app) cmdStatus(ctx context.Context) error {

	h, err := health.New(a.cfg)
	if err != nil {
		return err
	}

	check := h.Measure(ctx)

	fmt.Println("overall:", check.Status)

	for name, failure := range check.Failures {
		fmt.Printf("  %s: %s\n", name, failure)
	}

	return nil
}

func printProducts(products []models.Product) {
	for _, p := range products {
		fmt.Printf("%5d  %-30s %-15s %8.2f €  %s\n", p.ID, p.Nom, p.Categorie, p.Prix, p.Gender)
	}
}

func printUsers(users []models.CatalogUser) {
	for _, u := range users {
		fmt.Printf("%5d  %-25s %-30s %d\n", u.ID, u.Nom, u.Email, u.Age)
	}
}

func printCart(store *cart.Store) {

	items := store.Items()
	if len(items) == 0 {
		fmt.Println("Votre panier est vide")

		return
	}

	for _, line := range items {
		fmt.Printf("%5d  %-30s x%d  %8.2f €\n", line.ProductID, line.Nom, line.Quantity, line.Prix*float64(line.Quantity))
	}

	fmt.Printf("total: %.2f € (%s items)\n", store.Total(), badge(store.Count()))
}

// badge renders the cart count the way the navbar does.
func badge(count int) string {
	if count > 99 {
		return "99+"
	}

	return strconv.Itoa(count)
}

func confirm(prompt string) bool {

	fmt.Printf("%s [y/N] ", prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))

	return answer == "y" || answer == "yes" || answer == "o" || answer == "oui"
}

func lookup(byID map[int64]models.Product, fields []string, index int) (models.Product, bool) {

	id, err := argInt(fields, index)
	if err != nil {
		fmt.Println("usage:", fields[0], "<id>")

		return models.Product{}, false
	}

	product, ok := byID[id]
	if !ok {
		fmt.Println("no such product")
	}

	return product, ok
}

func argInt(fields []string, index int) (int64, error) {
	if index >= len(fields) {
		return 0, fmt.Errorf("missing argument")
	}

	return strconv.ParseInt(fields[index], 10, 64)
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront [-config path] <command>

  login -u <username> -p <password>
  register -u <username> -e <email> -p <password> [-confirm <password>] -genre <HOMME|FEMME>
  logout | whoami
  browse [-tab all|homme|femme] [-q term] [-cat category] [-sort nom|prix-asc|prix-desc] [-page n] [-size n]
  dashboard [-segment homme|femme] [-seed n]
  shop
  stats
  admin <product|user> <list|search|create|update|delete> [flags]
  predict -name <nom> -type <categorie> [-group g]
  predict-save -nom <nom> -categorie <cat> -prix <p> [-description d] [-image url]
  status | metrics`)
}
