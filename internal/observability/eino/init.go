package eino

import (
	"context"
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"

	"z-novel-studio/pkg/logger"
)

var initOnce sync.Once

// Init 注册 Eino 全局 callbacks（进程级一次）
// 本地后端只有 openai 驱动经过 Eino，所以只挂 ChatModel 回调
func Init() {
	initOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(globalHandler())
		logger.Debug(context.Background(), "eino callbacks registered", "components", "chat_model")
	})
}

func globalHandler() einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler()).
		Handler()
}
