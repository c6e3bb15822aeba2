package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/data/redisStore"
	"github.com/akolanti/DocFlowAPI/internal/data/store"
	"github.com/akolanti/DocFlowAPI/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisJobStore_Lifecycle(t *testing.T) {
	// 1. Start miniredis
	mr := miniredis.RunT(t)

	//I simply dont want to expose stuff to other classes about the store being used
	//this is a sacrifice that I will make temporarily

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	internalStore := redisStore.NewTestStore(client)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		Status:  jobModel.JobStatusRunning,
		JobType: jobModel.JobTypeIngest,
		JobPayload: jobModel.JobPayload{
			FileName: "invoice_2024_001.pdf",
			NumPages: 3,
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		// Test Save
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		// Test Get
		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.JobPayload.FileName != testJob.JobPayload.FileName {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.JobPayload.FileName, testJob.JobPayload.FileName)
		}
		if retrievedJob.JobPayload.NumPages != testJob.JobPayload.NumPages {
			t.Errorf("Page count mismatch! Got %d, want %d",
				retrievedJob.JobPayload.NumPages, testJob.JobPayload.NumPages)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		// Verify it's gone from miniredis
		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobStore := store.TestJobStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	for i := 0; i < workers; i++ {
		go func() {
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
}

func TestRedisStructureCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := store.TestStructureCache(redisStore.NewTestStore(client))

	ctx := context.Background()
	key := "structure:abc123"

	t.Run("Miss before save", func(t *testing.T) {
		if _, found := cache.GetAnswer(ctx, key); found {
			t.Error("Expected cache miss for unknown key")
		}
	})

	t.Run("Hit after save", func(t *testing.T) {
		answer := `{"invoice_number": "INV-42", "total": 100}`
		if err := cache.SaveAnswer(ctx, key, answer); err != nil {
			t.Fatalf("SaveAnswer failed: %v", err)
		}

		got, found := cache.GetAnswer(ctx, key)
		if !found {
			t.Fatal("Answer was saved but not found")
		}
		if got != answer {
			t.Errorf("Answer mismatch! Got %s, want %s", got, answer)
		}
	})

	t.Run("Entries expire", func(t *testing.T) {
		mr.FastForward(config.RedisStructureCacheTTL + 1)
		if _, found := cache.GetAnswer(ctx, "structure:abc123"); found {
			t.Error("Expected entry to be gone after TTL")
		}
	})
}
