package router

import (
	"context"

	"github.com/gearguard/gearguard-api/internal/application"
	"github.com/gearguard/gearguard-api/internal/container"
	"github.com/gearguard/gearguard-api/internal/infrastructure/mongodb"
	handlers "github.com/gearguard/gearguard-api/internal/interface/http"
	"github.com/gearguard/gearguard-api/internal/router/modules"
	"github.com/gearguard/gearguard-api/pkg/mailer"
	"github.com/gearguard/gearguard-api/pkg/oauth"
)

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module with the registry. Called once
// during startup; repository constructors ensure their indexes here.
func InitModules(ctx context.Context, r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	db := container.GetMongo()
	jwt := container.GetJWT()

	users := mongodb.NewUserRepository(ctx, logger, db)
	otps := mongodb.NewOTPRepository(ctx, logger, db, cfg.OTPTTL)
	activity := mongodb.NewActivityRepository(db)
	equipment := mongodb.NewEquipmentRepository(ctx, logger, db)
	teams := mongodb.NewTeamRepository(ctx, logger, db)
	requests := mongodb.NewRequestRepository(ctx, logger, db)

	mail := mailer.NewQueueSender(container.GetRabbitPub(), cfg.AppName, cfg.MailSendEnabled)

	authSvc := application.NewAuthService(users, otps, activity, jwt, mail, logger)
	authSvc.BypassEnabled = cfg.OTPBypassEnabled
	authSvc.DevMode = cfg.Env == "development"
	authSvc.TestAccounts = cfg.TestAccounts()
	authSvc.RegisterProvider(oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL))
	authSvc.RegisterProvider(oauth.NewGithubProvider(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubCallbackURL))

	userSvc := application.NewUserService(users, activity)
	equipmentSvc := application.NewEquipmentService(equipment, logger, container.GetES(), cfg.ESEquipmentIndex)
	teamSvc := application.NewTeamService(teams, users)
	requestSvc := application.NewRequestService(requests, equipmentSvc, users, mail, logger)
	dashboardSvc := application.NewDashboardService(requests, equipment)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cfg)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwt))
	r.Add(modules.NewEquipmentModule(handlers.NewEquipmentHandler(equipmentSvc, logger), jwt))
	r.Add(modules.NewTeamModule(handlers.NewTeamHandler(teamSvc, logger), jwt))
	r.Add(modules.NewRequestModule(handlers.NewRequestHandler(requestSvc, logger), jwt))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(dashboardSvc, logger), jwt))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(container.GetRabbitPub(), logger, cfg), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
