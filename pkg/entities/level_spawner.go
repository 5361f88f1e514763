package entities

import (
	"log"

	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
)

// SpawnLevelActors 清空实体并按关卡生成玩家与初始实体
//
// 玩家的分数、金币和剩余生命由调用方在重生时回填。
//
// 返回:
//   - 玩家实体ID 写入 w.PlayerID
func SpawnLevelActors(w *game.World) {
	w.Entities.Clear()
	w.PlayerID = NewPlayerEntity(w.Entities, w.Tuning, w.Level.PlayerSpawn)

	for _, s := range w.Level.Spawns {
		if kind, ok := s.Kind.EnemyKind(); ok {
			NewEnemyEntity(w.Entities, w.Tuning, kind, s.Cell)
			continue
		}
		if s.Kind == level.SpawnCoin {
			NewCoinEntity(w.Entities, w.Tuning, s.Cell)
		}
	}
	log.Printf("[LevelSpawner] Spawned player and %d actors for level %q", len(w.Level.Spawns), w.Level.ID)
}
