package world

// Simulation tunables. Distances are meters, durations seconds, speeds
// meters per second. Anything a designer would reasonably retune lives here
// rather than inline at the use site.
const (
	tickRate = 60
	maxDelta = 0.1

	worldHalf  = 38.0
	floorLevel = 0.0

	playerSpeed       = 10.0
	playerGravity     = 25.0
	playerJumpImpulse = 9.0
	playerRadius      = 0.4
	playerEyeHeight   = 1.7
	playerMaxHealth   = 100.0
	horizontalDamping = 0.8
	groundSnapTol     = 0.15

	magazineSize    = 8
	reserveMax      = 48
	reloadSeconds   = 1.4
	hitscanDamage   = 25.0
	hitscanRange    = 120.0
	hitscanInterval = 0.12

	rocketCooldown  = 1.2
	rocketSpeed     = 50.0
	rocketMaxTravel = 200.0
	rocketProximity = 1.2
	rocketHullPad   = 0.2
	blastRadius     = 8.0
	blastMaxDamage  = 120.0

	agentSpeed        = 8.0
	agentMaxHealth    = 100.0
	agentRadius       = 0.5
	agentHeight       = 1.8
	agentEyeHeight    = 1.5
	meleeRange        = 2.5
	meleeDamage       = 10.0
	attackCooldown    = 1.0
	agentJumpImpulse  = 8.0
	agentJumpCooldown = 1.5
	agentProbeAhead   = 1.5
	agentJumpChance   = 0.004
	agentAboveGap     = 1.5
	faceEpsilon       = 0.05

	pickupRadius     = 1.6
	healthPickupGain = 25.0
	ammoPickupGain   = 16
	pickupBobRate    = 2.0
	killScore        = 100

	spawnRingMin = 18.0
	spawnRingMax = 30.0

	damageFlashLife = 0.2

	particleGravity    = 30.0
	bloodLife          = 1.0
	bloodDecayRate     = 1.4
	tracerLife         = 1.0
	tracerDecayRate    = 9.0
	explosionLife      = 1.0
	explosionDecayRate = 2.2
	explosionGrowth    = 3.0

	notificationSeconds = 3.0
)
