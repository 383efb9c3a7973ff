package roster

// DefaultTeams is the league's standing roster.
func DefaultTeams() []Team {
	return []Team{
		{Sponsor: "福畅智达", Name: "冥界"},
		{Sponsor: "谦秋子皮", Name: "大飞"},
		{Sponsor: "星肾宝", Name: "大熊"},
		{Sponsor: "东方振兴", Name: "小乖"},
		{Sponsor: "杭州小圈", Name: "约定"},
		{Sponsor: "脆升升", Name: "柒月"},
		{Sponsor: "Eyebre", Name: "荒年"},
		{Sponsor: "海洋至尊", Name: "My弟"},
		{Sponsor: "OMG", Name: "弑神"},
		{Sponsor: "饱咕噜", Name: "陈奕迅"},
		{Sponsor: "盟趣", Name: "杨无敌"},
	}
}

func Default() *Roster {
	r, err := New(DefaultTeams())
	if err != nil {
		panic(err)
	}
	return r
}
