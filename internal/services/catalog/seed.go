package catalog

import "github.com/mcoot/cyberstore/internal/model"

func describe(text string) *string {
	return &text
}

// InitialGames returns the catalog written on first start
func InitialGames() []model.Game {
	return []model.Game{
		{
			ID:          "1",
			Name:        "Cyberpunk 2077",
			Price:       59.99,
			Author:      "CDPR",
			CoverURL:    "https://picsum.photos/seed/cyber/400/300",
			Description: describe("开放世界动作冒险 RPG，发生在一个痴迷于权力、魅力和身体改造的巨型都市中。"),
			ReleaseDate: "2020-12-10",
		},
		{
			ID:          "2",
			Name:        "Elden Ring",
			Price:       59.99,
			Author:      "FromSoft",
			CoverURL:    "https://picsum.photos/seed/elden/400/300",
			Description: describe("备受赞誉的奇幻动作 RPG，在广阔的世界中展开史诗般的冒险。"),
			ReleaseDate: "2022-02-25",
		},
		{
			ID:          "3",
			Name:        "Hades",
			Price:       24.99,
			Author:      "Supergiant",
			CoverURL:    "https://picsum.photos/seed/hades/400/300",
			Description: describe("肉鸽（Roguelike）动作游戏，挑战奥林匹斯众神，逃离冥界。"),
			ReleaseDate: "2020-09-17",
		},
		{
			ID:          "4",
			Name:        "Minecraft",
			Price:       29.99,
			Author:      "Mojang",
			CoverURL:    "https://picsum.photos/seed/mine/400/300",
			Description: describe("关于放置积木和进行冒险的沙盒游戏。"),
			ReleaseDate: "2011-11-18",
		},
		{
			ID:          "5",
			Name:        "Stardew Valley",
			Price:       14.99,
			Author:      "ConcernedApe",
			CoverURL:    "https://picsum.photos/seed/star/400/300",
			Description: describe("轻松的农场模拟游戏，继承祖父的旧农场，开始新生活。"),
			ReleaseDate: "2016-02-26",
		},
		{
			ID:          "6",
			Name:        "Hollow Knight",
			Price:       14.99,
			Author:      "Team Cherry",
			CoverURL:    "https://picsum.photos/seed/hollow/400/300",
			Description: describe("史诗般的动作冒险游戏，穿越一个庞大而荒废的昆虫王国。"),
			ReleaseDate: "2017-02-24",
		},
	}
}
