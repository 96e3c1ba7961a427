package wire

import (
	"Buildrs/internal/api"
	"Buildrs/internal/api/config"
	"Buildrs/internal/api/handler"
	"Buildrs/internal/job"
	"Buildrs/internal/pkg/cron"
	"Buildrs/internal/pkg/docstore"
	"Buildrs/internal/pkg/events"
	"Buildrs/internal/pkg/kafka"
	"Buildrs/internal/pkg/wallet"
	"Buildrs/internal/repository"
	"Buildrs/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// ApplicationContainer holds the top-level components main runs.
type ApplicationContainer struct {
	Router  *gin.Engine
	CronMgr *cron.Manager
	// KafkaManager and Producer are nil when no brokers are configured.
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.ActivityProducer
}

// BuildApplication wires repositories, services and handlers over store. storage may be nil when
// media uploads are disabled.
func BuildApplication(store docstore.Store, storage service.ObjectStorage, cfg *config.Config) (*ApplicationContainer, error) {
	profileRepo := repository.NewProfileRepo(store)
	buildRepo := repository.NewBuildRepo(store)
	voteRepo := repository.NewVoteRepo(store)
	commentRepo := repository.NewCommentRepo(store)
	followRepo := repository.NewFollowRepo(store)
	activityRepo := repository.NewActivityRepo(store)

	app := &ApplicationContainer{}

	var publisher events.Publisher = events.NewLedgerPublisher(activityRepo)
	if cfg.KafkaEnabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		app.Producer = kafka.NewActivityProducer(producer, cfg.Activity.Topic)
		publisher = app.Producer

		app.KafkaManager, err = kafka.NewConsumerManager(cfg, activityRepo)
		if err != nil {
			_ = app.Producer.Close()
			return nil, err
		}
	} else {
		log.Info("Kafka disabled, activities go straight to the ledger")
	}

	challengeTTL := time.Duration(cfg.Auth.ChallengeTTL) * time.Second
	authService := service.NewAuthService(profileRepo, wallet.PersonalSignVerifier{}, challengeTTL)
	profileService := service.NewProfileService(profileRepo, buildRepo, followRepo)
	buildService := service.NewBuildService(buildRepo, profileRepo, publisher)
	voteService := service.NewVoteService(buildRepo, voteRepo, publisher)
	commentService := service.NewCommentService(commentRepo, buildRepo)
	followService := service.NewFollowService(followRepo, profileRepo)
	leaderboardService := service.NewLeaderboardService(profileRepo, buildRepo, activityRepo,
		time.Duration(cfg.Leaderboard.SnapshotTTL)*time.Second)
	mediaService := service.NewMediaService(storage)

	handlers := &api.HandlersGroup{
		AuthHandler:        handler.NewAuthHandler(authService, profileService, challengeTTL),
		ProfileHandler:     handler.NewProfileHandler(profileService, buildService),
		BuildHandler:       handler.NewBuildHandler(buildService, voteService, commentService),
		FollowHandler:      handler.NewFollowHandler(followService),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService),
		MediaHandler:       handler.NewMediaHandler(mediaService),
	}
	app.Router = api.SetupRouter(handlers)

	app.CronMgr = cron.NewCronManager(cfg.Cron,
		job.NewVoteReconcileJob(voteService),
		job.NewProfileAggregateJob(profileService),
	)

	return app, nil
}
