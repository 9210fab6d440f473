package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/dcatrain/dca-feedback/internal/domain/entities"
	"github.com/dcatrain/dca-feedback/internal/infrastructure/database"
	"github.com/dcatrain/dca-feedback/pkg/config"
)

// Seeds a week of plausible feedback records so /analytics/summary and
// /retraining/evaluate return data on a fresh local database.
func main() {
	log.Println("🚀 Starting feedback seed...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("🗑️  Cleaning up existing seed records...")
	db.Where("session_id LIKE ?", "seed-%").Delete(&entities.FeedbackRecord{})
	db.Where("session_id LIKE ?", "seed-%").Delete(&entities.ComparisonEvent{})

	scenarios := []string{"engine_room_fuel", "berthing_electrical", "hangar_aircraft", "galley_cooking"}
	trainees := []string{"trainee-alpha", "trainee-bravo", "trainee-charlie"}
	levels := []entities.TrainingLevel{
		entities.TrainingLevelNovice,
		entities.TrainingLevelIntermediate,
		entities.TrainingLevelAdvanced,
	}

	log.Println("📝 Creating seed feedback records...")

	created := 0
	for i := 0; i < 12; i++ {
		scenarioID := scenarios[i%len(scenarios)]
		totalActions := 4 + i%4
		followed := totalActions - i%3
		errorsMade := i % 3

		actions := make([]entities.ActionRecord, 0, totalActions)
		for step := 0; step < totalActions; step++ {
			action := "dispatch_small_team"
			if step == 0 {
				action = "assess_situation"
			}
			actions = append(actions, entities.ActionRecord{
				Step:                step,
				UserAction:          action,
				AIRecommendedAction: action,
				FollowedAI:          step < followed,
				ResponseTimeMS:      900 + 150*step,
				Reward:              7.5,
				Evaluation: entities.ResponseEvaluation{
					ScenarioCategory: scenarioID,
					ResponseTimeMS:   900 + 150*step,
					IsCorrect:        step >= errorsMade,
					TotalScore:       0.78,
					Confidence:       0.9,
				},
				RecordedAt: time.Now().UTC().AddDate(0, 0, -(i % 7)),
			})
		}
		actionsJSON, err := json.Marshal(actions)
		if err != nil {
			log.Printf("❌ Failed to marshal action log for record %d: %v", i+1, err)
			continue
		}

		record := &entities.FeedbackRecord{
			ID:               uuid.New(),
			Timestamp:        time.Now().UTC().AddDate(0, 0, -(i % 7)),
			SessionID:        fmt.Sprintf("seed-%03d", i+1),
			ScenarioID:       scenarioID,
			UserID:           trainees[i%len(trainees)],
			TrainingLevel:    levels[i%len(levels)],
			DifficultyRating: 2 + i%4,
			AIHelpfulness:    3 + i%3,
			ScenarioRealism:  4,
			ConfidenceLevel:  2 + i%3,

			WhatWorkedWell:   "Clear first-action guidance",
			WhatWasConfusing: "",

			Accuracy:           float64(followed) / float64(totalActions),
			MeanResponseTimeMS: 1200 + float64(100*i),
			SuccessRate:        float64(totalActions-errorsMade) / float64(totalActions),
			FinalScore:         8 + float64(i%10),
			CompletionSeconds:  180 + float64(20*i),
			TotalActions:       totalActions,
			FollowedAICount:    followed,
			ErrorsMade:         errorsMade,
			CriticalErrors:     0,
			PerformanceRating:  "Good",
			Actions:            datatypes.JSON(actionsJSON),
		}

		if err := db.Create(record).Error; err != nil {
			log.Printf("❌ Failed to create record %s: %v", record.SessionID, err)
			continue
		}
		created++
	}

	log.Printf("✅ Created %d seed feedback records!", created)
	log.Println("\n💡 Usage:")
	log.Println("   curl http://localhost:8080/analytics/summary")
	log.Println("   curl -X POST http://localhost:8080/retraining/evaluate")
	log.Println("\n🧹 To clean up, run: DELETE FROM feedback_records WHERE session_id LIKE 'seed-%'")
}
