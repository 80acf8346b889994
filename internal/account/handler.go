package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/remotebricks/account-service/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Store defines the interface for account persistence. Find methods
// return (nil, nil) when no document matches; update and delete
// methods surface the driver's matched/deleted counts.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	InsertUser(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	SetLinkedID(ctx context.Context, id primitive.ObjectID, linkedID string) (int64, error)
	DeleteUserByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	FindDetailsByID(ctx context.Context, id primitive.ObjectID) (*models.Details, error)
	InsertDetails(ctx context.Context, d *models.Details) error
	DeleteDetailsByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	JoinUsersWithDetails(ctx context.Context) ([]models.JoinedUser, error)
}

// Handler holds the account HTTP handlers.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Register creates a new user after checking email and username
// uniqueness. Uniqueness is a pre-insert existence check only; two
// concurrent registrations can both pass it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"username, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("register email lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error":"Email already registered"}`, http.StatusBadRequest)
		return
	}

	existing, err = h.store.FindUserByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("register username lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error":"Username already registered"}`, http.StatusBadRequest)
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashPassword(req.Password),
	}
	if _, err := h.store.InsertUser(r.Context(), user); err != nil {
		log.Printf("register insert error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully"})
}

// Login checks credentials. It issues no session or token, and both
// miss cases answer 200 with a message rather than an error status.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("login lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "signup before login"})
		return
	}
	if user.Password != hashPassword(req.Password) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password mismatch"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
}

// LinkID sets the linked_id field on a user. A malformed id is a 400
// before any store call; a user deleted between the lookup and the
// update surfaces as a 404.
func (h *Handler) LinkID(w http.ResponseWriter, r *http.Request) {
	var req models.LinkIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	oid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"Invalid User ID format"}`, http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUserByID(r.Context(), oid)
	if err != nil {
		log.Printf("link-id lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User ID not found"})
		return
	}

	matched, err := h.store.SetLinkedID(r.Context(), oid, req.LinkedID)
	if err != nil {
		log.Printf("link-id update error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if matched == 0 {
		http.Error(w, `{"error":"User not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "ID linked successfully"})
}

// AddDetails attaches a details document keyed by the user's id.
// Create-only: a second call for the same id answers "already exists"
// and never overwrites the first document.
func (h *Handler) AddDetails(w http.ResponseWriter, r *http.Request) {
	var req models.DetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	oid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, `{"error":"Invalid User ID format"}`, http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUserByID(r.Context(), oid)
	if err != nil {
		log.Printf("add-details lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User ID not found"})
		return
	}

	existing, err := h.store.FindDetailsByID(r.Context(), oid)
	if err != nil {
		log.Printf("add-details lookup error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User ID already exists"})
		return
	}

	details := &models.Details{
		ID:       oid,
		Age:      req.Age,
		Location: req.Location,
	}
	if err := h.store.InsertDetails(r.Context(), details); err != nil {
		log.Printf("add-details insert error: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Details updated successfully"})
}

// DeleteUser removes a user and its details. Deletion requires an
// existing details document, so a user that never attached details
// cannot be deleted through this endpoint. The two deletes are not
// atomic: a failure between them leaves the user without details.
// Malformed ids and store failures both answer 500 here.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	oid, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		h.deleteError(w, err)
		return
	}

	user, err := h.store.FindUserByID(r.Context(), oid)
	if err != nil {
		h.deleteError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User not found in users collection"})
		return
	}

	details, err := h.store.FindDetailsByID(r.Context(), oid)
	if err != nil {
		h.deleteError(w, err)
		return
	}
	if details == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User not found in details collection"})
		return
	}

	if _, err := h.store.DeleteDetailsByID(r.Context(), oid); err != nil {
		h.deleteError(w, err)
		return
	}

	deleted, err := h.store.DeleteUserByID(r.Context(), oid)
	if err != nil {
		h.deleteError(w, err)
		return
	}
	if deleted == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User and associated data deleted successfully"})
}

func (h *Handler) deleteError(w http.ResponseWriter, err error) {
	log.Printf("delete-user error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": fmt.Sprintf("Error occurred: %v", err),
	})
}

// Join returns every user document with its joined_data array from the
// details collection. Read-only, unfiltered, unpaginated.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	joined, err := h.store.JoinUsersWithDetails(r.Context())
	if err != nil {
		log.Printf("join error: %v", err)
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	if joined == nil {
		joined = []models.JoinedUser{}
	}
	for i := range joined {
		if joined[i].JoinedData == nil {
			joined[i].JoinedData = []models.Details{}
		}
	}
	writeJSON(w, http.StatusOK, joined)
}
