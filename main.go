package main

import (
	"log"
	"time"

	api "inboxcal/cmd/api"
	authDelivery "inboxcal/internal/auth/delivery"
	authdomain "inboxcal/internal/auth/domain"
	authRepo "inboxcal/internal/auth/repository"
	authUsecase "inboxcal/internal/auth/usecase"
	candidateDelivery "inboxcal/internal/candidate/delivery"
	candidatedomain "inboxcal/internal/candidate/domain"
	candidateRepo "inboxcal/internal/candidate/repository"
	candidateUsecase "inboxcal/internal/candidate/usecase"
	"inboxcal/pkg/ai"
	"inboxcal/pkg/calendar"
	"inboxcal/pkg/classify"
	"inboxcal/pkg/config"
	"inboxcal/pkg/database"
	"inboxcal/pkg/datetime"
	"inboxcal/pkg/gmail"
	"inboxcal/pkg/imap"
	"inboxcal/pkg/tokencipher"
)

func main() {
	// Load configuration - missing required keys abort here, not mid-request
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("Invalid TIMEZONE: ", err)
	}

	cipher, err := tokencipher.New(cfg.TokenCipherKey)
	if err != nil {
		log.Fatal("Invalid TOKEN_CIPHER_KEY: ", err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := db.AutoMigrate(&authdomain.CredentialRecord{}, &candidatedomain.EventCandidate{}); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// Initialize repositories (dependency injection)
	credentialRepository := authRepo.NewGormCredentialRepository(db, cipher)
	candidateRepository := candidateRepo.NewGormCandidateRepository(db)

	// OAuth usecase doubles as the credential provider for the pipeline
	authUsecaseInstance := authUsecase.NewAuthUsecase(credentialRepository, cfg)

	// Mail provider: Gmail by default, IMAP when configured
	var mailProvider candidateUsecase.MailProvider = gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	if cfg.IMAPAddress != "" {
		log.Printf("Using IMAP mail source at %s", cfg.IMAPAddress)
		mailProvider = imap.NewService(cfg.IMAPAddress, cfg.IMAPUsername, cfg.IMAPPassword)
	}

	calendarService := calendar.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// Classifier and resolver
	classifierMode := classify.ModeStrict
	if cfg.ClassifierMode == string(classify.ModePermissive) {
		classifierMode = classify.ModePermissive
	}
	classifier := classify.New(classify.DefaultConfig(classifierMode))
	resolver := datetime.New(datetime.Config{
		Location:     location,
		HardFallback: cfg.ResolverHardFallback,
	})

	// AI fallback extractor - optional, pipeline runs without it
	extractor, err := ai.NewExtractorService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("[WARN] AI fallback disabled: %v", err)
		extractor = nil
	}

	syncCfg := candidateUsecase.DefaultSyncConfig()
	syncCfg.MaxMessages = cfg.SyncMaxMessages
	syncCfg.LookbackWindow = cfg.LookbackWindow
	syncCfg.MaxStale = cfg.MaxStale
	syncCfg.MaxFuture = cfg.MaxFuture
	syncCfg.AIFallbackLimit = cfg.AIFallbackLimit

	// Initialize use cases (dependency injection)
	syncUsecaseInstance := candidateUsecase.NewSyncUsecase(
		candidateRepository, mailProvider, authUsecaseInstance,
		classifier, resolver, extractor, location, syncCfg)
	reviewUsecaseInstance := candidateUsecase.NewReviewUsecase(
		candidateRepository, authUsecaseInstance, calendarService,
		cfg.CalendarID, location)

	// Initialize HTTP handler
	authHandler := authDelivery.NewAuthHandler(authUsecaseInstance)
	candidateHandler := candidateDelivery.NewCandidateHandler(
		syncUsecaseInstance, reviewUsecaseInstance, candidateRepository)
	handler := api.NewHandler(authHandler, candidateHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
