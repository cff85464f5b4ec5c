package common

import (
	"forum_hub/internal/pkg/common"
	"forum_hub/internal/pkg/middleware"
	"forum_hub/internal/pkg/push"
	"forum_hub/internal/pkg/registry"
	"forum_hub/internal/pkg/uploader"
	"forum_hub/pkg/logger"

	"go.uber.org/zap"
)

// CommonModule 通用能力模块：附件上传、移动端推送初始化
type CommonModule struct{}

func init() {
	registry.Register(&CommonModule{})
}

func (m *CommonModule) Name() string {
	return "common"
}

func (m *CommonModule) Priority() int {
	// 不被其他模块依赖，最后初始化
	return 100
}

func (m *CommonModule) Init(ctx *registry.ModuleContext) error {
	// OSS / 推送未配置时降级运行，不阻塞启动
	if err := uploader.InitUploader(); err != nil {
		logger.Log.Warn("uploader not available, /upload disabled", zap.Error(err))
	}

	if svc, err := push.NewAliyunPushService(); err != nil {
		logger.Log.Warn("push service not available, notifications are in-app only", zap.Error(err))
	} else {
		push.GlobalPushService = svc
	}

	ctx.Router.POST("/upload", middleware.AuthMiddleware(), common.UploadFile)
	return nil
}
