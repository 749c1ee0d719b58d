package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"flow-board/internal/domain"
)

// MigrateDB 执行全部数据库迁移。
// users 表使用自定义 SQL 创建，以便给唯一索引列指定长度；其余表交给 AutoMigrate。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	if err := migrateUsersTable(db); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}

	if err := db.AutoMigrate(&domain.Board{}, &domain.Solution{}); err != nil {
		logrus.Errorf("Failed to auto-migrate board tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateUsersTable 表不存在时创建，存在时交给 AutoMigrate 补齐索引
func migrateUsersTable(db *gorm.DB) error {
	if !db.Migrator().HasTable(&domain.User{}) {
		return createUsersTable(db)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		logrus.Errorf("Failed to auto-migrate User table for index updates: %v", err)
		return fmt.Errorf("failed to migrate user indexes: %w", err)
	}
	logrus.Info("Users table schema checked/updated successfully")
	return nil
}

func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) NOT NULL,
		password TEXT NOT NULL,
		email VARCHAR(191),
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username),
		UNIQUE INDEX idx_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}
