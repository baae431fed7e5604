package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the model and prompt observers into one callbacks.Handler.
func NewAllCallbacks(modelName string) einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		ChatModel(newModelHandler(modelName)).
		Prompt(newPromptHandler()).
		Handler()
}
