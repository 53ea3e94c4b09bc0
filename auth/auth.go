package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"mandi/db"
	"mandi/globals"
	"mandi/middleware"
	"mandi/models"
	"mandi/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 72 * time.Hour

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"` // farmer or buyer
}

func generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Register handles POST /api/v1/auth/register
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	role := utils.TrimLower(input.Role)
	if role == "" {
		role = models.RoleBuyer
	}
	if role != models.RoleFarmer && role != models.RoleBuyer {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	n, err := db.UserCollection.CountDocuments(ctx, bson.M{"username": input.Username})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	if n > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := models.User{
		UserID:    uuid.NewString(),
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hash),
		Role:      []string{role},
		CreatedAt: time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Println("Register insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"userid": user.UserID, "username": user.Username})
}

// Login handles POST /api/v1/auth/login
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": input.Username}).Decode(&storedUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	tokenString, err := generateAccessToken(storedUser)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Println("Login last_login update error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":    tokenString,
		"userid":   storedUser.UserID,
		"username": storedUser.Username,
		"role":     storedUser.Role,
	})
}
