package rubric

import "context"

// Gateway is the persistence boundary the engine commits through. The engine
// never fabricates its own gateway; the composition root wires one in, which
// is also what lets tests substitute a fake.
type Gateway interface {
	ListOverrides(ctx context.Context, questionUUID string) ([]Override, error)
	CreateOverride(ctx context.Context, questionUUID string, in OverrideCreate) (Override, error)
	UpdateOverride(ctx context.Context, uuid string, in OverrideUpdate) (Override, error)
	DeleteOverride(ctx context.Context, uuid string) error

	ListAnswers(ctx context.Context, questionUUID string) ([]Answer, error)
	CreateAnswer(ctx context.Context, questionUUID string, in AnswerCreate) (Answer, error)
	UpdateAnswer(ctx context.Context, uuid string, in AnswerUpdate) (Answer, error)
	DeleteAnswer(ctx context.Context, uuid string) error
}
