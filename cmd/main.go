package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"chats-api/handler"
	"chats-api/internal/integrations/paramstore"
	"chats-api/internal/repository"
	"chats-api/internal/usecase"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	chatsTable := mustEnv("CHATS_TABLE")
	user1Index := envString("USER1_INDEX", repository.DefaultUser1Index)
	user2Index := envString("USER2_INDEX", repository.DefaultUser2Index)
	queryTimeout := time.Duration(envInt("QUERY_TIMEOUT_MS", 5000)) * time.Millisecond
	paramPrefix := os.Getenv("PARAM_PREFIX")

	// ---- AWS SDK config ----
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Optional overrides from Parameter Store ----
	if paramPrefix != "" {
		ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
		if err != nil {
			slog.Error("failed to create SSM client", "err", err)
			os.Exit(1)
		}
		user1Index, user2Index, err = ssmClient.IndexOverrides(ctx, paramPrefix, user1Index, user2Index)
		if err != nil {
			slog.Error("failed to load index overrides", "err", err, "prefix", paramPrefix)
			os.Exit(1)
		}
	}

	// ---- Clients ----
	chatStore, err := repository.New(awsdynamodb.NewFromConfig(cfg), chatsTable, repository.Indexes{
		User1: user1Index,
		User2: user2Index,
	})
	if err != nil {
		slog.Error("failed to create chat store", "err", err)
		os.Exit(1)
	}

	// ---- Handler ----
	listChats, err := usecase.NewListChatsService(chatStore, queryTimeout)
	if err != nil {
		slog.Error("failed to create list chats service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(listChats)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	slog.Info("chats handler ready", "table", chatsTable, "user1_index", user1Index, "user2_index", user2Index)
	lambda.Start(h.Handle)
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		slog.Error("required environment variable is not set", "key", key)
		os.Exit(1)
	}
	return v
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
