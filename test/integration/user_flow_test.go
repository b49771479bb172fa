// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/internal/httpapi"
)

// client is a browser-like API client that keeps the session cookie.
type client struct {
	http *http.Client
}

func newClient() *client {
	jar, err := cookiejar.New(nil)
	Expect(err).NotTo(HaveOccurred())
	return &client{http: &http.Client{Jar: jar}}
}

func (c *client) call(method, path string, body any) (int, httpapi.Response) {
	var buf bytes.Buffer
	if body != nil {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	var out httpapi.Response
	Expect(json.NewDecoder(resp.Body).Decode(&out)).To(Succeed())
	return resp.StatusCode, out
}

func (c *client) register(name, password, code string) (int, httpapi.Response) {
	return c.call(http.MethodPost, "/api/user/register", httpapi.RegisterRequest{
		AccountName: name, Password: password, ConfirmPassword: password, RegistrationCode: code,
	})
}

func (c *client) login(name, password string) (int, httpapi.Response) {
	return c.call(http.MethodPost, "/api/user/login", httpapi.LoginRequest{AccountName: name, Password: password})
}

var _ = Describe("User API", func() {
	BeforeEach(func() {
		_, err := pool.Exec(context.Background(), "TRUNCATE users RESTART IDENTITY")
		Expect(err).NotTo(HaveOccurred())
		redisSrv.FlushAll()
	})

	It("registers, logs in, reads the session and logs out", func() {
		c := newClient()

		status, resp := c.register("alice001", "password1", "1")
		Expect(status).To(Equal(http.StatusOK))
		Expect(resp.Data).To(BeEquivalentTo(1))

		status, resp = c.login("alice001", "password1")
		Expect(status).To(Equal(http.StatusOK))
		Expect(resp.Data).To(HaveKeyWithValue("userAccount", "alice001"))
		Expect(resp.Data).To(HaveKeyWithValue("planetCode", "1"))
		Expect(resp.Data).NotTo(HaveKey("userPassword"))

		Expect(redisSrv.Keys()).To(HaveLen(1))
		Expect(redisSrv.Keys()[0]).To(HavePrefix(sessionKey + ":"))

		_, resp = c.call(http.MethodGet, "/api/user/current", nil)
		Expect(resp.Code).To(Equal(httpapi.CodeSuccess))

		_, resp = c.call(http.MethodPost, "/api/user/logout", nil)
		Expect(resp.Data).To(BeTrue())
		Expect(redisSrv.Keys()).To(BeEmpty())

		_, resp = c.call(http.MethodGet, "/api/user/current", nil)
		Expect(resp.Code).To(Equal(httpapi.CodeNotLogin))
	})

	It("stores only the salted digest", func() {
		c := newClient()
		c.register("alice001", "password1", "1")

		var stored string
		err := pool.QueryRow(context.Background(),
			"SELECT password_hash FROM users WHERE account_name = $1", "alice001").Scan(&stored)
		Expect(err).NotTo(HaveOccurred())

		want, err := auth.NewSaltedMD5Hasher(salt).Hash("password1")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(Equal(want))
	})

	It("rejects duplicate account names and registration codes", func() {
		c := newClient()
		c.register("alice001", "password1", "1")

		status, resp := c.register("alice001", "password2", "2")
		Expect(status).To(Equal(http.StatusConflict))
		Expect(resp.Code).To(Equal(httpapi.CodeNullError))

		status, _ = c.register("bobby001", "password2", "1")
		Expect(status).To(Equal(http.StatusConflict))
	})

	It("lets exactly one concurrent registration of a name succeed", func() {
		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
		)
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				status, _ := newClient().register("racer001", "password1", fmt.Sprintf("%d", i))
				if status == http.StatusOK {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		Expect(succeeded).To(Equal(1))
		var count int
		Expect(pool.QueryRow(context.Background(),
			"SELECT count(*) FROM users WHERE account_name = 'racer001'").Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})

	It("gives admins search and delete", func() {
		admin := newClient()
		admin.register("admin001", "adminpass1", "9")
		_, err := pool.Exec(context.Background(), "UPDATE users SET role = 1 WHERE account_name = 'admin001'")
		Expect(err).NotTo(HaveOccurred())

		user := newClient()
		_, resp := user.register("alice001", "password1", "1")
		aliceID := resp.Data
		user.login("alice001", "password1")

		admin.login("admin001", "adminpass1")
		_, resp = admin.call(http.MethodGet, "/api/user/search?userAccount=lic", nil)
		Expect(resp.Data).To(HaveLen(1))

		_, resp = user.call(http.MethodGet, "/api/user/search?userAccount=lic", nil)
		Expect(resp.Code).To(Equal(httpapi.CodeNoAuth))

		_, resp = admin.call(http.MethodPost, "/api/user/delete", map[string]any{"id": aliceID})
		Expect(resp.Data).To(BeTrue())

		_, resp = user.call(http.MethodGet, "/api/user/current", nil)
		Expect(resp.Code).To(Equal(httpapi.CodeNotLogin))
	})
})
