// Insight - Business Intelligence Dashboard for SPISA and xERP
// Copyright 2026 Dialfa
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dialfa/insight

package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dialfa/insight/internal/config"
)

// User is one entry in the static account table.
type User struct {
	Username     string
	Role         string
	passwordHash []byte
}

// Users holds the two static dashboard accounts. Account management is a
// non-feature here: the deployment has exactly one admin and one viewer.
type Users struct {
	byName map[string]*User
}

// NewUsers builds the account table from configuration. Passwords given as
// bcrypt hashes are used verbatim; plaintext passwords are hashed at
// startup so the process never keeps them around.
func NewUsers(cfg config.SecurityConfig) (*Users, error) {
	u := &Users{byName: make(map[string]*User, 2)}

	for _, account := range []struct {
		username, password, role string
	}{
		{cfg.AdminUsername, cfg.AdminPassword, RoleAdmin},
		{cfg.ViewerUsername, cfg.ViewerPassword, RoleUser},
	} {
		if account.username == "" || account.password == "" {
			continue
		}
		hash, err := passwordHash(account.password)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", account.username, err)
		}
		u.byName[account.username] = &User{
			Username:     account.username,
			Role:         account.role,
			passwordHash: hash,
		}
	}

	if len(u.byName) == 0 {
		return nil, fmt.Errorf("no user accounts configured")
	}
	return u, nil
}

// Authenticate verifies a username/password pair and returns the matching
// user. The error is identical for unknown users and wrong passwords so
// responses don't leak which usernames exist.
func (u *Users) Authenticate(username, password string) (*User, error) {
	user, ok := u.byName[username]
	if !ok {
		// Burn a comparison anyway to keep timing consistent.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// dummyHash is compared against for unknown usernames.
var dummyHash = mustHash("insight-placeholder-credential")

func passwordHash(password string) ([]byte, error) {
	if strings.HasPrefix(password, "$2a$") || strings.HasPrefix(password, "$2b$") {
		return []byte(password), nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}
