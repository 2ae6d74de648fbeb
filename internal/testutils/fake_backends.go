package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/projetproduits/storefront/internal/models"
)

// FakeCatalog is an in-memory stand-in for one audience segment's
// catalog service, close enough for client round-trips.
type FakeCatalog struct {
	Segment models.Segment

	// EnvelopeLists makes list endpoints answer {"data": [...]}
	// instead of a bare array, mirroring the other backend build.
	EnvelopeLists bool

	// FailLists makes every list endpoint answer 500.
	FailLists bool

	mu           sync.Mutex
	products     map[int64]models.Product
	users        map[int64]models.CatalogUser
	interactions []models.Interaction
	nextID       int64
}

func NewFakeCatalog(segment models.Segment) *FakeCatalog {
	return &FakeCatalog{
		Segment:  segment,
		products: make(map[int64]models.Product),
		users:    make(map[int64]models.CatalogUser),
		nextID:   1,
	}
}

func (f *FakeCatalog) SeedProduct(p models.Product) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p.ID == 0 {
		p.ID = f.nextID
	}

	if p.ID >= f.nextID {
		f.nextID = p.ID + 1
	}

	f.products[p.ID] = p

	return p
}

func (f *FakeCatalog) SeedUser(u models.CatalogUser) models.CatalogUser {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u.ID == 0 {
		u.ID = f.nextID
	}

	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}

	f.users[u.ID] = u

	return u
}

func (f *FakeCatalog) Interactions() []models.Interaction {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Interaction, len(f.interactions))
	copy(out, f.interactions)

	return out
}

func (f *FakeCatalog) Server() *httptest.Server {

	prefix := "/api/" + string(f.Segment)
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+prefix+"/produits", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := make([]models.Product, 0, len(f.products))
		for _, p := range f.products {
			items = append(items, p)
		}
		f.mu.Unlock()

		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

		f.writeList(w, items)
	})

	mux.HandleFunc("POST "+prefix+"/produits", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		product := models.Product{
			ID:          f.nextID,
			Nom:         req.Nom,
			Categorie:   req.Categorie,
			Prix:        req.Prix,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}
		f.nextID++
		f.products[product.ID] = product
		f.mu.Unlock()

		writeJSON(w, http.StatusCreated, product)
	})

	mux.HandleFunc("GET "+prefix+"/produits/search", func(w http.ResponseWriter, r *http.Request) {
		nom := strings.ToLower(r.URL.Query().Get("nom"))

		f.mu.Lock()
		items := make([]models.Product, 0)
		for _, p := range f.products {
			if strings.Contains(strings.ToLower(p.Nom), nom) {
				items = append(items, p)
			}
		}
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("GET "+prefix+"/produits/categorie/{cat}", func(w http.ResponseWriter, r *http.Request) {
		cat := r.PathValue("cat")

		f.mu.Lock()
		items := make([]models.Product, 0)
		for _, p := range f.products {
			if p.Categorie == cat {
				items = append(items, p)
			}
		}
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("GET "+prefix+"/produits/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		product, ok := f.products[id]
		f.mu.Unlock()

		if !ok {
			writeError(w, http.StatusNotFound, "Produit non trouvé")

			return
		}

		writeJSON(w, http.StatusOK, product)
	})

	mux.HandleFunc("PUT "+prefix+"/produits/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		var req models.UpdateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		_, ok := f.products[id]
		if ok {
			f.products[id] = models.Product{
				ID:          id,
				Nom:         req.Nom,
				Categorie:   req.Categorie,
				Prix:        req.Prix,
				Description: req.Description,
				ImageURL:    req.ImageURL,
			}
		}
		product := f.products[id]
		f.mu.Unlock()

		if !ok {
			writeError(w, http.StatusNotFound, "Produit non trouvé")

			return
		}

		writeJSON(w, http.StatusOK, product)
	})

	mux.HandleFunc("DELETE "+prefix+"/produits/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		delete(f.products, id)
		f.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET "+prefix+"/users", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := make([]models.CatalogUser, 0, len(f.users))
		for _, u := range f.users {
			items = append(items, u)
		}
		f.mu.Unlock()

		sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

		f.writeList(w, items)
	})

	mux.HandleFunc("POST "+prefix+"/users", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		user := models.CatalogUser{ID: f.nextID, Nom: req.Nom, Email: req.Email, Age: req.Age}
		f.nextID++
		f.users[user.ID] = user
		f.mu.Unlock()

		writeJSON(w, http.StatusCreated, user)
	})

	mux.HandleFunc("PUT "+prefix+"/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		var req models.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		_, ok := f.users[id]
		if ok {
			f.users[id] = models.CatalogUser{ID: id, Nom: req.Nom, Email: req.Email, Age: req.Age}
		}
		user := f.users[id]
		f.mu.Unlock()

		if !ok {
			writeError(w, http.StatusNotFound, "Utilisateur non trouvé")

			return
		}

		writeJSON(w, http.StatusOK, user)
	})

	mux.HandleFunc("DELETE "+prefix+"/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		delete(f.users, id)
		f.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET "+prefix+"/users/search", func(w http.ResponseWriter, r *http.Request) {
		nom := strings.ToLower(r.URL.Query().Get("nom"))

		f.mu.Lock()
		items := make([]models.CatalogUser, 0)
		for _, u := range f.users {
			if strings.Contains(strings.ToLower(u.Nom), nom) {
				items = append(items, u)
			}
		}
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("POST "+prefix+"/interactions", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateInteractionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		interaction := models.Interaction{
			ID:              f.nextID,
			UserID:          req.UserID,
			ProduitID:       req.ProduitID,
			TypeInteraction: req.TypeInteraction,
			Timestamp:       time.Now().UTC(),
		}
		f.nextID++
		f.interactions = append(f.interactions, interaction)
		f.mu.Unlock()

		writeJSON(w, http.StatusCreated, interaction)
	})

	mux.HandleFunc("GET "+prefix+"/interactions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := make([]models.Interaction, len(f.interactions))
		copy(items, f.interactions)
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("GET "+prefix+"/interactions/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		items := make([]models.Interaction, 0)
		for _, it := range f.interactions {
			if it.UserID == id {
				items = append(items, it)
			}
		}
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("GET "+prefix+"/interactions/produit/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		items := make([]models.Interaction, 0)
		for _, it := range f.interactions {
			if it.ProduitID == id {
				items = append(items, it)
			}
		}
		f.mu.Unlock()

		f.writeList(w, items)
	})

	mux.HandleFunc("GET "+prefix+"/interactions/training-data", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		rows := make([]models.TrainingRow, 0, len(f.interactions))
		for _, it := range f.interactions {
			row := models.TrainingRow{UserID: it.UserID, ProduitID: it.ProduitID, TypeInteraction: it.TypeInteraction}
			if p, ok := f.products[it.ProduitID]; ok {
				row.Categorie = p.Categorie
				row.Prix = p.Prix
			}
			rows = append(rows, row)
		}
		f.mu.Unlock()

		f.writeList(w, rows)
	})

	return httptest.NewServer(mux)
}

func (f *FakeCatalog) writeList(w http.ResponseWriter, items any) {

	if f.FailLists {
		writeError(w, http.StatusInternalServerError, "service indisponible")

		return
	}

	if f.EnvelopeLists {
		writeJSON(w, http.StatusOK, map[string]any{"data": items})

		return
	}

	writeJSON(w, http.StatusOK, items)
}

// FakeAuth imitates the index auth service's token endpoints.
type FakeAuth struct {
	// FailLogout makes /auth/logout answer 500.
	FailLogout bool

	// FailDeleteByEmail makes the secondary admin delete answer 500.
	FailDeleteByEmail bool

	// RejectValidate makes /auth/validate answer 401 regardless of
	// the presented token.
	RejectValidate bool

	mu            sync.Mutex
	passwords     map[string]string
	users         map[string]models.AuthUser
	issuedAccess  map[string]string
	issuedRefresh map[string]string
	LogoutCalls   int
	DeletedEmails []string
}

func NewFakeAuth() *FakeAuth {
	return &FakeAuth{
		passwords:     make(map[string]string),
		users:         make(map[string]models.AuthUser),
		issuedAccess:  make(map[string]string),
		issuedRefresh: make(map[string]string),
	}
}

func (f *FakeAuth) SeedUser(user models.AuthUser, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.users[user.Username] = user
	f.passwords[user.Username] = password
}

func (f *FakeAuth) issue(username string) models.AuthPayload {
	access := fmt.Sprintf("access-%s-%d", username, len(f.issuedAccess))
	refresh := fmt.Sprintf("refresh-%s-%d", username, len(f.issuedRefresh))
	f.issuedAccess[access] = username
	f.issuedRefresh[refresh] = username

	return models.AuthPayload{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         f.users[username],
	}
}

func (f *FakeAuth) Server() *httptest.Server {

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		password, ok := f.passwords[req.Username]
		if !ok || password != req.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Invalid username or password",
			})

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    f.issue(req.Username),
		})
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		if _, exists := f.users[req.Username]; exists {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Username already taken",
			})

			return
		}

		f.users[req.Username] = models.AuthUser{
			ID:       int64(len(f.users) + 1),
			Username: req.Username,
			Email:    req.Email,
			Role:     models.RoleClient,
			Genre:    req.Genre,
		}
		f.passwords[req.Username] = req.Password

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"data":    f.issue(req.Username),
		})
	})

	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req models.RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		username, ok := f.issuedRefresh[req.RefreshToken]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false,
				"message": "Invalid refresh token",
			})

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    f.issue(username),
		})
	})

	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.LogoutCalls++
		f.mu.Unlock()

		if f.FailLogout {
			writeError(w, http.StatusInternalServerError, "logout failed")

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("GET /auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if f.RejectValidate {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")

			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		f.mu.Lock()
		_, ok := f.issuedAccess[token]
		f.mu.Unlock()

		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")

			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": "Token is valid"})
	})

	mux.HandleFunc("DELETE /auth/users/email/{email}", func(w http.ResponseWriter, r *http.Request) {
		if f.FailDeleteByEmail {
			writeError(w, http.StatusInternalServerError, "auth delete failed")

			return
		}

		f.mu.Lock()
		f.DeletedEmails = append(f.DeletedEmails, r.PathValue("email"))
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	return httptest.NewServer(mux)
}

// FakeML is a canned stand-in for the classification service. It tags
// anything whose name contains "robe" as Femme and the rest as Homme.
type FakeML struct {
	mu    sync.Mutex
	saved []models.Product
}

func NewFakeML() *FakeML {
	return &FakeML{}
}

func (f *FakeML) Saved() []models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Product, len(f.saved))
	copy(out, f.saved)

	return out
}

func (f *FakeML) classify(name string) (string, float64) {
	if strings.Contains(strings.ToLower(name), "robe") {
		return "Femme", 0.91
	}

	return "Homme", 0.73
}

func (f *FakeML) Server() *httptest.Server {

	mux := http.NewServeMux()

	mux.HandleFunc("POST /predict", func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		gender, confidence := f.classify(req.ProductName)

		writeJSON(w, http.StatusOK, models.Prediction{
			PredictedGender: gender,
			Confidence:      confidence,
			Probabilities:   map[string]float64{gender: confidence},
		})
	})

	mux.HandleFunc("POST /predict-and-save", func(w http.ResponseWriter, r *http.Request) {
		var req models.PredictAndSaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")

			return
		}

		gender, confidence := f.classify(req.Nom)

		f.mu.Lock()
		product := models.Product{
			ID:          int64(len(f.saved) + 1),
			Nom:         req.Nom,
			Categorie:   req.Categorie,
			Prix:        req.Prix,
			Description: req.Description,
			ImageURL:    req.ImageURL,
		}
		f.saved = append(f.saved, product)
		f.mu.Unlock()

		writeJSON(w, http.StatusOK, models.PredictAndSaveResult{
			PredictedGender: gender,
			Confidence:      confidence,
			Probabilities:   map[string]float64{gender: confidence},
			Product:         product,
		})
	})

	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
