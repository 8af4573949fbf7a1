package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"github.com/bitfantasy/mashg/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "mashg-test-jwt-secret"

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a migrated sqlite database in the test's temp dir. The
// file is removed with the directory when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&entity.Factory{}, &entity.Inspection{}); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group behind JWT auth
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken signs a token for userID valid for one day
func GenerateTestToken(userID, name string) string {
	now := time.Now()
	claims := middleware.Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "mashg",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			ID:        fmt.Sprintf("test-jti-%d", now.UnixNano()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default inspector
func DefaultTestToken() string {
	return GenerateTestToken("test-inspector-001", "Test Inspector")
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON envelope into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedFactory inserts a factory directly
func SeedFactory(t *testing.T, db *gorm.DB, name, address string) *entity.Factory {
	t.Helper()
	factory := &entity.Factory{
		Name:    name,
		Address: address,
	}
	if err := db.Create(factory).Error; err != nil {
		t.Fatalf("Failed to seed factory: %v", err)
	}
	return factory
}

// SeedInspection inserts an inspection for factory on gregorianDate
func SeedInspection(t *testing.T, db *gorm.DB, factory *entity.Factory, gregorianDate, hebrewDate string) *entity.Inspection {
	t.Helper()
	inspection := &entity.Inspection{
		FactoryID:      &factory.ID,
		FactoryName:    factory.Name,
		FactoryAddress: factory.Address,
		Inspector:      "Test Inspector",
		GregorianDate:  gregorianDate,
		HebrewDate:     hebrewDate,
		ContactName:    "Avi",
		ContactPhone:   "050-0000000",
		Summary:        "Routine visit",
		Result:         entity.InspectionResultPassed,
	}
	if err := db.Create(inspection).Error; err != nil {
		t.Fatalf("Failed to seed inspection: %v", err)
	}
	return inspection
}
