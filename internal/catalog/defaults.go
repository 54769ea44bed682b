package catalog

// Default returns the built-in tables.
func Default() *Catalog {
	return New(defaultZones(), defaultUpgrades(), defaultEvents(), defaultAchievements(), defaultDefenses())
}

func defaultZones() []Zone {
	return []Zone{
		{ID: "parking-lot", Name: "Parking Lot", Description: "Fender-benders and sudden whiplash.",
			UnlockCost: 0, BaseClick: 10, BaseViews: 50},
		{ID: "grocery-aisle", Name: "Grocery Aisle", Description: "Slip, fall, sue.",
			UnlockCost: 5_000, BaseClick: 60, BaseViews: 250},
		{ID: "burst-pipes", Name: "Burst Pipes", Description: "Water damage nobody can disprove.",
			UnlockCost: 75_000, BaseClick: 400, BaseViews: 1_200},
		{ID: "phantom-clinic", Name: "Phantom Clinic", Description: "Patients who never existed, treatments that never happened.",
			UnlockCost: 1_000_000, BaseClick: 3_000, BaseViews: 6_000},
		{ID: "art-vault", Name: "Art Vault", Description: "Forged masterpieces lost in convenient fires.",
			UnlockCost: 25_000_000, BaseClick: 25_000, BaseViews: 30_000},
		{ID: "yacht-harbor", Name: "Yacht Harbor", Description: "Yachts sink. Paperwork floats.",
			UnlockCost: 400_000_000, BaseClick: 200_000, BaseViews: 150_000},
	}
}

func defaultUpgrades() []Upgrade {
	return []Upgrade{
		// Parking lot.
		{ID: "neck-brace", Name: "Neck Brace", Zone: "parking-lot",
			BaseCost: 50, CostMultiplier: 1.15, Effect: Effect{Kind: EffectClickBonus, Value: 5}},
		{ID: "dashcam-edits", Name: "Dashcam Edits", Zone: "parking-lot",
			BaseCost: 120, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 2}},
		{ID: "burner-phone", Name: "Burner Phone", Zone: "parking-lot",
			BaseCost: 500, CostMultiplier: 1.35, MaxQuantity: 10, Effect: Effect{Kind: EffectViewReduction, Value: 0.03}},
		{ID: "tinted-windows", Name: "Tinted Windows", Zone: "parking-lot",
			BaseCost: 1_000, CostMultiplier: 1.3, Effect: Effect{Kind: EffectDecayBonus, Value: 200}},

		// Grocery aisle.
		{ID: "wet-floor-sign", Name: "Wet Floor Sign (Removed)", Zone: "grocery-aisle",
			BaseCost: 8_000, CostMultiplier: 1.6, MaxQuantity: 15, Effect: Effect{Kind: EffectClickMultiplier, Value: 1.25}},
		{ID: "paid-witnesses", Name: "Paid Witnesses", Zone: "grocery-aisle",
			BaseCost: 6_000, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 25}},
		{ID: "fake-receipts", Name: "Fake Receipts", Zone: "grocery-aisle",
			BaseCost: 7_500, CostMultiplier: 1.17, Effect: Effect{Kind: EffectClickBonus, Value: 40}},

		// Burst pipes.
		{ID: "plumber-on-payroll", Name: "Plumber on Payroll", Zone: "burst-pipes",
			BaseCost: 90_000, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 180}},
		{ID: "pr-firm", Name: "PR Firm", Zone: "burst-pipes",
			BaseCost: 150_000, CostMultiplier: 1.5, MaxQuantity: 10, Effect: Effect{Kind: EffectDecayMultiplier, Value: 1.15}},
		{ID: "lucky-horseshoe", Name: "Lucky Horseshoe", Zone: "burst-pipes",
			BaseCost: 200_000, CostMultiplier: 1.8, MaxQuantity: 5, Effect: Effect{Kind: EffectGoldenBoost, Value: 1.2}},

		// Phantom clinic.
		{ID: "ghost-patients", Name: "Ghost Patients", Zone: "phantom-clinic",
			BaseCost: 1_200_000, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 1_500}},
		{ID: "creative-billing", Name: "Creative Billing Codes", Zone: "phantom-clinic",
			BaseCost: 2_000_000, CostMultiplier: 1.7, MaxQuantity: 12, Effect: Effect{Kind: EffectClickMultiplier, Value: 1.3}},
		{ID: "shell-clinic", Name: "Shell Clinic", Zone: "phantom-clinic",
			BaseCost: 3_000_000, CostMultiplier: 1.5, MaxQuantity: 8, Effect: Effect{Kind: EffectViewReduction, Value: 0.05}},

		// Art vault.
		{ID: "forger-studio", Name: "Forger Studio", Zone: "art-vault",
			BaseCost: 30_000_000, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 12_000}},
		{ID: "gallery-fire", Name: "Gallery Fire", Zone: "art-vault",
			BaseCost: 28_000_000, CostMultiplier: 1.18, Effect: Effect{Kind: EffectClickBonus, Value: 2_500}},
		{ID: "reputation-launderer", Name: "Reputation Launderer", Zone: "art-vault",
			BaseCost: 150_000_000, CostMultiplier: 1, MaxQuantity: 1, Effect: Effect{Kind: EffectViewCap, Value: 98_000_000}},

		// Yacht harbor.
		{ID: "offshore-fleet", Name: "Offshore Fleet", Zone: "yacht-harbor",
			BaseCost: 450_000_000, CostMultiplier: 1.15, Effect: Effect{Kind: EffectPassiveIncome, Value: 100_000}},
		{ID: "bribed-harbormaster", Name: "Bribed Harbormaster", Zone: "yacht-harbor",
			BaseCost: 600_000_000, CostMultiplier: 1.6, MaxQuantity: 5, Effect: Effect{Kind: EffectDecayMultiplier, Value: 1.4}},
		{ID: "witness-relocation", Name: "Witness Relocation", Zone: "yacht-harbor",
			BaseCost: 900_000_000, CostMultiplier: 1, MaxQuantity: 1, Effect: Effect{Kind: EffectViewCap, Value: 96_000_000}},
	}
}

func defaultEvents() []Event {
	return []Event{
		{ID: "industry-audit", Name: "Industry Audit", Description: "Investigators comb the files. Lie low.",
			Weight: 1, DurationSeconds: 8, Pauses: true},
		{ID: "trending-hashtag", Name: "Trending Hashtag", Description: "Someone posted a clip. Everyone is watching.",
			Weight: 2, DurationSeconds: 20, ViewMultiplier: 3},
		{ID: "hurricane-season", Name: "Hurricane Season", Description: "Claims flood in; nobody checks them.",
			Weight: 2, DurationSeconds: 30, IncomeMultiplier: 2, ClickMultiplier: 2, ViewMultiplier: 1.5},
		{ID: "slow-news-day", Name: "Slow News Day", Description: "The newsroom has better things to chase.",
			Weight: 2, DurationSeconds: 30, ViewMultiplier: 0.5},
		{ID: "adjuster-strike", Name: "Adjuster Strike", Description: "Payouts are rubber-stamped.",
			Weight: 1, DurationSeconds: 25, IncomeMultiplier: 1.5},
	}
}

func defaultAchievements() []Achievement {
	return []Achievement{
		{ID: "first-claim", Name: "First Claim", Description: "File a fake claim.", RewardPercent: 1,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterFakeClaims, Threshold: 1}},
		{ID: "paper-trail", Name: "Paper Trail", Description: "File 100 fake claims in one run.", RewardPercent: 2,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterFakeClaims, Threshold: 100}},
		{ID: "first-grand", Name: "First Grand", Description: "Earn $1,000.", RewardPercent: 1,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterTotalEarned, Threshold: 1_000}},
		{ID: "millionaire", Name: "Millionaire", Description: "Earn $1,000,000.", RewardPercent: 5,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterTotalEarned, Threshold: 1_000_000}},
		{ID: "billionaire", Name: "Billionaire", Description: "Earn $1,000,000,000.", RewardPercent: 10,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterTotalEarned, Threshold: 1_000_000_000}},
		{ID: "going-viral", Name: "Going Viral", Description: "Reach the viral threat level.", RewardPercent: 3,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterMaxThreat, Threshold: 5}},
		{ID: "golden-touch", Name: "Golden Touch", Description: "Collect 10 golden claims.", RewardPercent: 3,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterGoldenClaims, Threshold: 10}},
		{ID: "collector", Name: "Collector", Description: "Own 100 upgrades.", RewardPercent: 4,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterUpgradesOwned, Threshold: 100}},
		{ID: "going-clinical", Name: "Going Clinical", Description: "Open the phantom clinic.", RewardPercent: 3,
			Condition: Condition{Kind: ConditionZone, Zone: "phantom-clinic"}},
		{ID: "high-seas", Name: "High Seas", Description: "Open the yacht harbor.", RewardPercent: 5,
			Condition: Condition{Kind: ConditionZone, Zone: "yacht-harbor"}},
		{ID: "repeat-offender", Name: "Repeat Offender", Description: "Get arrested three times.", RewardPercent: 5,
			Condition: Condition{Kind: ConditionCounter, Counter: CounterTotalArrests, Threshold: 3}},
		{ID: "beat-the-rap", Name: "Beat the Rap", Description: "Walk out acquitted.", RewardPercent: 5,
			Condition: Condition{Kind: ConditionTrial, Outcome: OutcomeAcquitted}},
		{ID: "plea-bargain", Name: "Plea Bargain", Description: "Get a reduced sentence.", RewardPercent: 2,
			Condition: Condition{Kind: ConditionTrial, Outcome: OutcomeReduced}},
		{ID: "hard-time", Name: "Hard Time", Description: "Serve a full sentence.", RewardPercent: 2,
			Condition: Condition{Kind: ConditionTrial, Outcome: OutcomeConvicted}},
	}
}

func defaultDefenses() []Defense {
	return []Defense{
		{ID: "public-defender", Name: "Public Defender", Description: "Overworked, underpaid, free.",
			FeeRate: 0, AcquitChance: 0.05, ReduceChance: 0.25, ReduceFactor: 0.5},
		{ID: "plea-deal", Name: "Plea Deal", Description: "Admit to something smaller.",
			FeeRate: 0.05, AcquitChance: 0, ReduceChance: 1, ReduceFactor: 0.6},
		{ID: "celebrity-lawyer", Name: "Celebrity Lawyer", Description: "Expensive, theatrical, effective.",
			FeeRate: 0.25, AcquitChance: 0.45, ReduceChance: 0.4, ReduceFactor: 0.35},
	}
}
