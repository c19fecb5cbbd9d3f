package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oreshnik/storefront/internal/db"
	"github.com/oreshnik/storefront/internal/models"
	"github.com/oreshnik/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(gdb))
	return &repo.GormRepo{DB: gdb}
}

var productSeq int

func seedProduct(t *testing.T, r *repo.GormRepo, title string, price int64, live bool) models.Product {
	t.Helper()

	productSeq++
	p := models.Product{
		Slug:  fmt.Sprintf("product-%d", productSeq),
		SKU:   fmt.Sprintf("SKU-%d", productSeq),
		Title: title,
		Price: price,
		Live:  live,
	}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, email string) models.User {
	t.Helper()

	u := models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, r.DB.Create(&u).Error)
	return u
}
