package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rescue-roster/config"
	"rescue-roster/internal/api/handler"
	"rescue-roster/internal/api/middleware"
	"rescue-roster/pkg/jwt"
	"rescue-roster/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎；rdb 可以为 nil（Token 黑名单与分布式限流不可用）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		limit, err := middleware.RateLimit(cfg.RateLimit.Rate, rdb, logger)
		if err != nil {
			return nil, err
		}
		v1.Use(limit)
	}

	// rdb 为 nil 时不能直接赋给接口，否则会得到非 nil 的接口值
	var checker middleware.TokenChecker
	if rdb != nil {
		checker = rdb
	}

	{
		// 认证模块（无需认证）
		v1.POST("/auth/login", h.Auth.Login)

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, checker))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			admin := middleware.RoleAuth("admin")

			// 用户模块
			users := authorized.Group("/users", admin)
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 基地模块
			bases := authorized.Group("/bases")
			{
				bases.GET("", h.Base.ListBases)
				bases.GET("/:id", h.Base.GetBase)
				bases.POST("", admin, h.Base.CreateBase)
				bases.PUT("/:id", admin, h.Base.UpdateBase)
				bases.DELETE("/:id", admin, h.Base.DeleteBase)
			}

			// 班次模块
			shifts := authorized.Group("/work-shifts")
			{
				shifts.GET("", h.WorkShift.ListShifts)
				shifts.GET("/:id", h.WorkShift.GetShift)
				shifts.POST("", admin, h.WorkShift.CreateShift)
				shifts.PUT("/:id", admin, h.WorkShift.UpdateShift)
				shifts.DELETE("/:id", admin, h.WorkShift.DeleteShift)
			}

			// 人员模块
			personnel := authorized.Group("/personnel")
			{
				personnel.GET("", h.Personnel.ListPersonnel)
				personnel.GET("/:id", h.Personnel.GetPersonnel)
				personnel.POST("", admin, h.Personnel.CreatePersonnel)
				personnel.PUT("/:id", admin, h.Personnel.UpdatePersonnel)
				personnel.DELETE("/:id", admin, h.Personnel.DeletePersonnel)
			}

			// 基地档案与成员（负责人）
			authorized.GET("/profile/base", h.Profile.GetProfile)
			authorized.PUT("/profile/base", h.Profile.SaveProfile)
			members := authorized.Group("/base-members")
			{
				members.GET("", h.Profile.ListMembers)
				members.POST("", h.Profile.AddMember)
				members.POST("/guest", h.Profile.AddGuest)
				members.DELETE("/:personnel_id", h.Profile.RemoveMember)
			}

			// 绩效模块（负责人，归属在 Service 层校验）
			perf := authorized.Group("/performance")
			{
				perf.GET("/logs", h.Performance.FindLog)
				perf.POST("/logs", h.Performance.CreateLog)
				perf.GET("/logs/mine", h.Performance.ListMyLogs)
				perf.GET("/logs/:id", h.Performance.GetLog)
				perf.PUT("/logs/:id", h.Performance.UpdateLog)
				perf.POST("/logs/:id/finalize", h.Performance.FinalizeLog)
				perf.GET("/logs/:id/entries", h.Performance.ListLogEntries)
				perf.POST("/logs/:id/entries", h.Performance.CreateEntry)
				perf.POST("/logs/:id/entries/batch", h.Performance.BatchUpsertEntries)
				perf.POST("/logs/:id/assign-range", h.Performance.AssignRange)
				perf.GET("/entries", h.Performance.ListEntries)
				perf.PUT("/entries/:id", h.Performance.UpdateEntry)
				perf.DELETE("/entries/:id", h.Performance.DeleteEntry)
				perf.GET("/grid", h.Performance.Grid)
			}

			// 管理员绩效视图
			adminPerf := authorized.Group("/admin/performance", admin)
			{
				adminPerf.GET("/grid", h.Admin.Grid)
				adminPerf.GET("/summary", h.Admin.Summary)
				adminPerf.GET("/entries", h.Performance.ListEntries)
				adminPerf.GET("/assignments", h.Admin.ListAssignments)
				adminPerf.PUT("/assignments", h.Admin.UpsertAssignment)
				adminPerf.DELETE("/assignments/:id", h.Admin.DeleteAssignment)
			}

			// 日历模块
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("/today", h.Calendar.Today)
				calendar.GET("/month", h.Calendar.Month)
				calendar.GET("/holidays", h.Calendar.Holidays)
				calendar.POST("/holidays", admin, h.Calendar.CreateHoliday)
				calendar.DELETE("/holidays/:id", admin, h.Calendar.DeleteHoliday)
			}
		}
	}

	return r, nil
}
