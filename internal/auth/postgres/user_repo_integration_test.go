// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

//go:build integration

package postgres_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/internal/auth/postgres"
)

func strPtr(s string) *string { return &s }

var _ = Describe("UserRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.UserRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = postgres.NewUserRepository(testPool)
		_, err := testPool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Insert", func() {
		It("assigns id and creation time", func() {
			user := &auth.User{AccountName: "user1", PasswordHash: "hash", RegistrationCode: strPtr("12345")}
			Expect(repo.Insert(ctx, user)).To(Succeed())
			Expect(user.ID).To(BeNumerically(">", 0))
			Expect(user.CreatedAt.IsZero()).To(BeFalse())

			stored, err := repo.FindByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.AccountName).To(Equal("user1"))
			Expect(stored.RegistrationCode).NotTo(BeNil())
			Expect(*stored.RegistrationCode).To(Equal("12345"))
		})

		It("reports a duplicate account name", func() {
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user1", PasswordHash: "h"})).To(Succeed())
			err := repo.Insert(ctx, &auth.User{AccountName: "user1", PasswordHash: "h"})
			Expect(errors.Is(err, auth.ErrDuplicateAccountName)).To(BeTrue())
		})

		It("reports a duplicate registration code", func() {
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user1", PasswordHash: "h", RegistrationCode: strPtr("1")})).To(Succeed())
			err := repo.Insert(ctx, &auth.User{AccountName: "user2", PasswordHash: "h", RegistrationCode: strPtr("1")})
			Expect(errors.Is(err, auth.ErrDuplicateRegistrationCode)).To(BeTrue())
		})

		It("allows many accounts without a code", func() {
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user1", PasswordHash: "h"})).To(Succeed())
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user2", PasswordHash: "h"})).To(Succeed())
		})
	})

	Describe("queries", func() {
		BeforeEach(func() {
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user1", PasswordHash: "h1"})).To(Succeed())
			Expect(repo.Insert(ctx, &auth.User{AccountName: "user2", PasswordHash: "h2", RegistrationCode: strPtr("2")})).To(Succeed())
			Expect(repo.Insert(ctx, &auth.User{AccountName: "admin", PasswordHash: "h3", Role: auth.RoleAdmin})).To(Succeed())
		})

		It("counts by account name and code", func() {
			n, err := repo.CountByAccountName(ctx, "user2")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			n, err = repo.CountByRegistrationCode(ctx, "2")
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))
		})

		It("matches credentials exactly", func() {
			user, err := repo.FindByAccountNameAndPasswordHash(ctx, "admin", "h3")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Role).To(Equal(auth.RoleAdmin))

			_, err = repo.FindByAccountNameAndPasswordHash(ctx, "admin", "h1")
			Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
		})

		It("searches by fragment", func() {
			users, err := repo.SearchByAccountName(ctx, "user")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))

			users, err = repo.SearchByAccountName(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(3))

			users, err = repo.SearchByAccountName(ctx, "%")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(BeEmpty())
		})

		It("deletes by id", func() {
			deleted, err := repo.DeleteByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeTrue())

			deleted, err = repo.DeleteByID(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(deleted).To(BeFalse())

			_, err = repo.FindByID(ctx, 1)
			Expect(errors.Is(err, auth.ErrNotFound)).To(BeTrue())
		})
	})
})
