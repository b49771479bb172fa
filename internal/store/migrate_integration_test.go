// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/usercenter/usercenter/internal/store"
)

var _ = Describe("Database", Ordered, func() {
	var (
		ctx       context.Context
		container *postgres.PostgresContainer
		connStr   string
	)

	BeforeAll(func() {
		ctx = context.Background()
		var err error
		container, err = postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("usercenter_test"),
			postgres.WithUsername("usercenter"),
			postgres.WithPassword("usercenter"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		Expect(err).NotTo(HaveOccurred())

		connStr, err = container.ConnectionString(ctx, "sslmode=disable")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if container != nil {
			Expect(container.Terminate(ctx)).To(Succeed())
		}
	})

	Describe("Connect", func() {
		It("returns a live pool", func() {
			pool, err := store.Connect(ctx, connStr, store.ConnectOptions{})
			Expect(err).NotTo(HaveOccurred())
			defer pool.Close()

			Expect(store.ReadinessCheck(pool, time.Second)()).To(BeTrue())
		})

		It("gives up on an unreachable database", func() {
			_, err := store.Connect(ctx, "postgres://u:p@127.0.0.1:1/none?sslmode=disable", store.ConnectOptions{
				MaxAttempts:    2,
				InitialBackoff: 10 * time.Millisecond,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Migrator", func() {
		var migrator *store.Migrator

		BeforeAll(func() {
			var err error
			migrator, err = store.NewMigrator(connStr)
			Expect(err).NotTo(HaveOccurred())
		})

		AfterAll(func() {
			Expect(migrator.Close()).To(Succeed())
		})

		It("starts at version 0", func() {
			version, dirty, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(BeZero())
			Expect(dirty).To(BeFalse())

			pending, err := migrator.PendingMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(Equal([]uint{1, 2}))
		})

		It("applies every migration and creates the users table", func() {
			Expect(migrator.Up()).To(Succeed())

			version, dirty, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(2)))
			Expect(dirty).To(BeFalse())

			pool, err := pgxpool.New(ctx, connStr)
			Expect(err).NotTo(HaveOccurred())
			defer pool.Close()

			var exists bool
			err = pool.QueryRow(ctx, `SELECT to_regclass('public.users') IS NOT NULL`).Scan(&exists)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			err = pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'users_account_name_trgm_idx')`).
				Scan(&exists)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("steps down and up again", func() {
			Expect(migrator.Steps(-1)).To(Succeed())
			version, _, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(1)))

			Expect(migrator.Steps(1)).To(Succeed())
			version, _, err = migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(2)))
		})

		It("rolls everything back", func() {
			Expect(migrator.Down()).To(Succeed())
			version, _, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(BeZero())
		})

		It("forces a version without running migrations", func() {
			Expect(migrator.Up()).To(Succeed())
			Expect(migrator.Force(1)).To(Succeed())

			version, dirty, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(version).To(Equal(uint(1)))
			Expect(dirty).To(BeFalse())
		})
	})
})
