package ai

// Weights is the tunable constants table shared by every evaluator. The
// defaults are tuned values; personalities override subsets of them.
type Weights struct {
	// Terrain fitness.
	OffboardDeathScaleFactor int `yaml:"offboard_death_scale_factor"`
	NativeBonusTerrain       int `yaml:"native_bonus_terrain"`
	NativeBog                int `yaml:"native_bog"`
	NonNativePenaltyTerrain  int `yaml:"non_native_penalty_terrain"`
	PenaltyDamageTerrain     int `yaml:"penalty_damage_terrain"`

	// Rangestrikes.
	FirstRangestrikeTarget    int `yaml:"first_rangestrike_target"`
	ExtraRangestrikeTarget    int `yaml:"extra_rangestrike_target"`
	RangestrikeTitan          int `yaml:"rangestrike_titan"`
	RangestrikeWithoutPenalty int `yaml:"rangestrike_without_penalty"`

	// Adjacency to enemies.
	AttackerAdjacentToEnemy int `yaml:"attacker_adjacent_to_enemy"`
	DefenderAdjacentToEnemy int `yaml:"defender_adjacent_to_enemy"`
	AdjacentToEnemyTitan    int `yaml:"adjacent_to_enemy_titan"`
	AdjacentToRangestriker  int `yaml:"adjacent_to_rangestriker"`

	// Expected kills.
	KillScaleFactor            int `yaml:"kill_scale_factor"`
	KillableTargetsScaleFactor int `yaml:"killable_targets_scale_factor"`
	AttackerKillScaleFactor    int `yaml:"attacker_kill_scale_factor"`
	DefenderKillScaleFactor    int `yaml:"defender_kill_scale_factor"`

	// Friends.
	AdjacentToBuddy      int `yaml:"adjacent_to_buddy"`
	AdjacentToBuddyTitan int `yaml:"adjacent_to_buddy_titan"`
	GangUpOnCreature     int `yaml:"gang_up_on_creature"`

	// Formation.
	DefenderTowerHeightBonus            int `yaml:"defender_tower_height_bonus"`
	DefenderForwardEarlyPenalty         int `yaml:"defender_forward_early_penalty"`
	AttackerDistanceFromEnemyPenalty    int `yaml:"attacker_distance_from_enemy_penalty"`
	DefenderByEdgeOrBlockingHazardBonus int `yaml:"defender_by_edge_or_blocking_hazard_bonus"`

	// Titan.
	TitanTowerHeightBonus            int `yaml:"titan_tower_height_bonus"`
	TitanForwardEarlyPenalty         int `yaml:"titan_forward_early_penalty"`
	TitanByEdgeOrBlockingHazardBonus int `yaml:"titan_by_edge_or_blocking_hazard_bonus"`

	// Damage taken.
	DamageTakenScaleFactor int `yaml:"damage_taken_scale_factor"`
	LikelyDeathScaleFactor int `yaml:"likely_death_scale_factor"`

	// Whole-position bonuses.
	DefenderUnreachableBonus int `yaml:"defender_unreachable_bonus"`
	AtMostOneAttackerBonus   int `yaml:"at_most_one_attacker_bonus"`
	NoGangTargetBonus        int `yaml:"no_gang_target_bonus"`
	ObjectiveScale           int `yaml:"objective_scale"`

	// Outcome classification: attacker/defender value ratios at or above
	// each threshold earn that category.
	WinWithMinimalLossesRatio      float64 `yaml:"win_with_minimal_losses_ratio"`
	WinWithHeavyLossesRatio        float64 `yaml:"win_with_heavy_losses_ratio"`
	DrawRatio                      float64 `yaml:"draw_ratio"`
	LoseButInflictHeavyLossesRatio float64 `yaml:"lose_but_inflict_heavy_losses_ratio"`
	TowerDefenseMultiplier         float64 `yaml:"tower_defense_multiplier"`
	AbyssDefenseMultiplier         float64 `yaml:"abyss_defense_multiplier"`

	// Round simulation.
	CarryFactor     float64 `yaml:"carry_factor"`
	AttackerDeathHP float64 `yaml:"attacker_death_hp"`
	RecruitRound    int     `yaml:"recruit_round"`
	SharedScale     float64 `yaml:"shared_scale"`
	GroupKillScale  float64 `yaml:"group_kill_scale"`

	// Masterboard.
	SplitMinHeight      int     `yaml:"split_min_height"`
	SplitUndoMargin     int     `yaml:"split_undo_margin"`
	RecruitValueScale   int     `yaml:"recruit_value_scale"`
	TitanLossPenalty    int     `yaml:"titan_loss_penalty"`
	RiskScale           float64 `yaml:"risk_scale"`
	LookaheadDepth      int     `yaml:"lookahead_depth"`
	AngelPointsInterval int     `yaml:"angel_points_interval"`

	// Flee and concede.
	FleeAtEnemyOutcome    Outcome `yaml:"flee_at_enemy_outcome"`
	ConcedeMinHeight      int     `yaml:"concede_min_height"`
	ConcedeMaxDamageRatio float64 `yaml:"concede_max_damage_ratio"`

	// Battle search.
	CandidatesPerCritter int `yaml:"candidates_per_critter"`
	KeepTopMoves         int `yaml:"keep_top_moves"`
}

// DefaultWeights returns the tuned default table.
func DefaultWeights() Weights {
	return Weights{
		OffboardDeathScaleFactor: -2000,
		NativeBonusTerrain:       40,
		NativeBog:                20,
		NonNativePenaltyTerrain:  -20,
		PenaltyDamageTerrain:     -200,

		FirstRangestrikeTarget:    300,
		ExtraRangestrikeTarget:    100,
		RangestrikeTitan:          500,
		RangestrikeWithoutPenalty: 100,

		AttackerAdjacentToEnemy: 400,
		DefenderAdjacentToEnemy: -20,
		AdjacentToEnemyTitan:    1300,
		AdjacentToRangestriker:  500,

		KillScaleFactor:            25,
		KillableTargetsScaleFactor: 0,
		AttackerKillScaleFactor:    25,
		DefenderKillScaleFactor:    1,

		AdjacentToBuddy:      100,
		AdjacentToBuddyTitan: 600,
		GangUpOnCreature:     50,

		DefenderTowerHeightBonus:            80,
		DefenderForwardEarlyPenalty:         -60,
		AttackerDistanceFromEnemyPenalty:    -300,
		DefenderByEdgeOrBlockingHazardBonus: 80,

		TitanTowerHeightBonus:            2000,
		TitanForwardEarlyPenalty:         -10000,
		TitanByEdgeOrBlockingHazardBonus: 4000,

		DamageTakenScaleFactor: -5,
		LikelyDeathScaleFactor: -2,

		DefenderUnreachableBonus: 300,
		AtMostOneAttackerBonus:   150,
		NoGangTargetBonus:        100,
		ObjectiveScale:           100,

		WinWithMinimalLossesRatio:      1.30,
		WinWithHeavyLossesRatio:        1.15,
		DrawRatio:                      0.85,
		LoseButInflictHeavyLossesRatio: 0.70,
		TowerDefenseMultiplier:         1.2,
		AbyssDefenseMultiplier:         0.8,

		CarryFactor:     0.5,
		AttackerDeathHP: 0.2,
		RecruitRound:    4,
		SharedScale:     0.5,
		GroupKillScale:  0.1,

		SplitMinHeight:      7,
		SplitUndoMargin:     20,
		RecruitValueScale:   1,
		TitanLossPenalty:    -100000,
		RiskScale:           1.0,
		LookaheadDepth:      1,
		AngelPointsInterval: 100,

		FleeAtEnemyOutcome:    WinWithMinimalLosses,
		ConcedeMinHeight:      6,
		ConcedeMaxDamageRatio: 0.2,

		CandidatesPerCritter: 8,
		KeepTopMoves:         5,
	}
}

// cowardWeights raises every outcome threshold so that fewer fights look
// winnable, and flees from heavy-loss wins as well.
func cowardWeights() Weights {
	w := DefaultWeights()
	w.WinWithMinimalLossesRatio = 1.60
	w.WinWithHeavyLossesRatio = 1.40
	w.DrawRatio = 1.10
	w.LoseButInflictHeavyLossesRatio = 0.90
	w.FleeAtEnemyOutcome = WinWithHeavyLosses
	return w
}
