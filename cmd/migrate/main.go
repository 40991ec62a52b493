package main

import (
	"log"
	"os"

	"ai-storyboard-be/internal/model"
	"ai-storyboard-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions
	color.Yellow("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Red("Warn: Failed to create pgcrypto: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	color.Yellow("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.TokenBalance{},
		&model.TokenTransaction{},
		&model.ProcessedBillingEvent{},
		&model.ChatConversation{},
		&model.ChatMessage{},
		&model.StoryboardScene{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Post-Migration: foreign keys GORM can't infer without associations
	color.Yellow("Step 3: Creating Constraints...")

	postMigrationSQL := []string{
		`DO $$ BEGIN
		   ALTER TABLE token_balances ADD CONSTRAINT fk_token_balances_user
		     FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
		   ALTER TABLE token_transactions ADD CONSTRAINT fk_token_transactions_user
		     FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
		   ALTER TABLE chat_conversations ADD CONSTRAINT fk_chat_conversations_user
		     FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
		   ALTER TABLE chat_messages ADD CONSTRAINT fk_chat_messages_conversation
		     FOREIGN KEY (conversation_id) REFERENCES chat_conversations(id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
		   ALTER TABLE storyboard_scenes ADD CONSTRAINT fk_storyboard_scenes_conversation
		     FOREIGN KEY (conversation_id) REFERENCES chat_conversations(id) ON DELETE CASCADE;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
		`DO $$ BEGIN
		   ALTER TABLE storyboard_scenes ADD CONSTRAINT fk_storyboard_scenes_message
		     FOREIGN KEY (message_id) REFERENCES chat_messages(id) ON DELETE SET NULL;
		 EXCEPTION WHEN duplicate_object THEN NULL; END $$;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed.")
}
