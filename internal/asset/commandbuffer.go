package asset

import (
	"fmt"

	ecs "github.com/lukaschod/EntityComponentSystem"
)

type intentKind int

const (
	intentSave intentKind = iota
	intentLoad
	intentUpdate
)

type intent struct {
	kind    intentKind
	asset   Asset
	payload []byte
}

// CommandBuffer queues Save/Load/Update intents against asset blobs,
// draining them against a BlobStore in one batch the way ecs.CommandBuffer
// drains structural entity edits (spec §12 "asset command buffer").
type CommandBuffer struct {
	intents []intent
}

// NewCommandBuffer returns an empty buffer.
func NewCommandBuffer() *CommandBuffer { return &CommandBuffer{} }

// Save queues creating (or overwriting) a's blob with payload.
func (cb *CommandBuffer) Save(a Asset, payload []byte) {
	cb.intents = append(cb.intents, intent{kind: intentSave, asset: a, payload: payload})
}

// Load queues verifying a's blob is present, without changing it.
func (cb *CommandBuffer) Load(a Asset) {
	cb.intents = append(cb.intents, intent{kind: intentLoad, asset: a})
}

// Update queues overwriting a's existing blob with payload.
func (cb *CommandBuffer) Update(a Asset, payload []byte) {
	cb.intents = append(cb.intents, intent{kind: intentUpdate, asset: a, payload: payload})
}

// Execute drains every queued intent against blobs, in order, then resets
// the buffer.
func (cb *CommandBuffer) Execute(blobs *ecs.BlobStore) error {
	for _, in := range cb.intents {
		switch in.kind {
		case intentSave, intentUpdate:
			ecs.CreateBlob[[]byte](blobs, in.asset.Guid, in.payload)
		case intentLoad:
			if _, ok := blobs.Get(in.asset.Guid); !ok {
				return fmt.Errorf("asset: blob %s not found", in.asset.Guid)
			}
		}
	}
	cb.intents = nil
	return nil
}
