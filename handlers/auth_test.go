package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRejectsInvalidBody(t *testing.T) {
	cases := []string{
		`{}`,
		`{"name":"A","email":"not-an-email","password":"secret1"}`,
		`{"name":"A","email":"a@example.com","password":"short"}`,
		`{"email":"a@example.com","password":"secret1"}`,
	}

	for _, body := range cases {
		c, w := testContext(http.MethodPost, "/api/auth/signup", []byte(body))
		Signup(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestLoginRejectsInvalidBody(t *testing.T) {
	cases := []string{
		`{}`,
		`{"email":"not-an-email","password":"secret1"}`,
		`{"email":"a@example.com"}`,
	}

	for _, body := range cases {
		c, w := testContext(http.MethodPost, "/api/auth/login", []byte(body))
		Login(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}
