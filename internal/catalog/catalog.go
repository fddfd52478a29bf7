package catalog

import (
	"github.com/shestoi/rivalsyndicate/internal/repository"
)

const iconBase = "https://rivalskins.com/wp-content/uploads/marvel-assets/assets/lord-icons/"

// Service - услуга витрины
type Service struct {
	ID            repository.ServiceType `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	PriceModifier int                    `json:"priceModifier"`
}

// Character - персонаж, для которого можно заказать услугу
type Character struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice int     `json:"basePrice"`
	Icon      *string `json:"icon"`
}

func icon(name string) *string {
	u := iconBase + name + "%20Deluxe%20Avatar.png"
	return &u
}

var services = []Service{
	{ID: repository.ServicePriorityFarm, Name: "Priority Farm", Description: "We host the farm, you do the work", PriceModifier: 0},
	{ID: repository.ServiceLordBoosting, Name: "Lord Boosting", Description: "We do the farm for you", PriceModifier: 10},
}

var characters = map[repository.CharacterClass][]Character{
	repository.ClassDuelist: {
		{ID: "hela", Name: "Hela", BasePrice: 25, Icon: icon("Hela")},
		{ID: "hawkeye", Name: "Hawkeye", BasePrice: 25, Icon: icon("Hawkeye")},
		{ID: "iron-fist", Name: "Iron Fist", BasePrice: 30, Icon: icon("Iron%20Fist")},
		{ID: "magik", Name: "Magik", BasePrice: 25, Icon: icon("Magik")},
		{ID: "mr-fantastic", Name: "Mr. Fantastic", BasePrice: 40, Icon: icon("Mister%20Fantastic")},
		{ID: "black-panther", Name: "Black Panther", BasePrice: 20, Icon: icon("Black%20Panther")},
		{ID: "blade", Name: "Blade", BasePrice: 25, Icon: icon("Blade")},
		{ID: "black-widow", Name: "Black Widow", BasePrice: 20, Icon: icon("Black%20Widow")},
		{ID: "daredevil", Name: "Daredevil", BasePrice: 30, Icon: icon("Daredevil")},
		{ID: "human-torch", Name: "Human Torch", BasePrice: 20, Icon: icon("Human%20Torch")},
		{ID: "iron-man", Name: "Iron Man", BasePrice: 20, Icon: icon("Iron%20Man")},
		{ID: "moon-knight", Name: "Moon Knight", BasePrice: 20, Icon: icon("Moon%20Knight")},
		{ID: "namor", Name: "Namor", BasePrice: 20, Icon: icon("Namor")},
		{ID: "phoenix", Name: "Phoenix", BasePrice: 20, Icon: icon("Phoenix")},
		{ID: "spider-man", Name: "Spider-Man", BasePrice: 25, Icon: icon("Spider-Man")},
		{ID: "psylocke", Name: "Psylocke", BasePrice: 25, Icon: icon("Psylocke")},
		{ID: "scarlet-witch", Name: "Scarlet Witch", BasePrice: 20, Icon: icon("Scarlet%20Witch")},
		{ID: "squirrel-girl", Name: "Squirrel Girl", BasePrice: 20, Icon: icon("Squirrel%20Girl")},
		{ID: "star-lord", Name: "Star-Lord", BasePrice: 30, Icon: icon("Star-Lord")},
		{ID: "storm", Name: "Storm", BasePrice: 25, Icon: icon("Storm")},
		{ID: "punisher", Name: "Punisher", BasePrice: 20, Icon: icon("The%20Punisher")},
		{ID: "winter-soldier", Name: "Winter Soldier", BasePrice: 20, Icon: icon("Winter%20Soldier")},
		{ID: "wolverine", Name: "Wolverine", BasePrice: 20, Icon: icon("Wolverine")},
	},
	repository.ClassVanguard: {
		{ID: "thor", Name: "Thor", BasePrice: 40, Icon: icon("Thor")},
		{ID: "venom", Name: "Venom", BasePrice: 40, Icon: icon("Venom")},
		{ID: "dr-strange", Name: "Dr. Strange", BasePrice: 40, Icon: icon("Doctor%20Strange")},
		{ID: "angela", Name: "Angela", BasePrice: 25, Icon: icon("Angela")},
		{ID: "thing", Name: "Thing", BasePrice: 25, Icon: icon("The%20Thing")},
		{ID: "hulk", Name: "Hulk", BasePrice: 25, Icon: icon("Hero%20Hulk")},
		{ID: "groot", Name: "Groot", BasePrice: 40, Icon: icon("Groot")},
		{ID: "emma-frost", Name: "Emma Frost", BasePrice: 25, Icon: icon("Emma%20Frost")},
		{ID: "peni-parker", Name: "Peni Parker", BasePrice: 25, Icon: icon("Peni%20Parker")},
		{ID: "captain-america", Name: "Captain America", BasePrice: 30, Icon: icon("Captain%20America")},
		{ID: "magneto", Name: "Magneto", BasePrice: 40, Icon: icon("Magneto")},
		{ID: "rogue", Name: "Rogue", BasePrice: 25},
	},
	repository.ClassStrategist: {
		{ID: "adam-warlock", Name: "Adam Warlock", BasePrice: 40, Icon: icon("Adam%20Warlock")},
		{ID: "cloak-dagger", Name: "Cloak & Dagger", BasePrice: 25, Icon: icon("Cloak%20&%20Dagger")},
		{ID: "invisible-woman", Name: "Invisible Woman", BasePrice: 25, Icon: icon("Invisible%20Woman")},
		{ID: "jeff", Name: "Jeff", BasePrice: 25, Icon: icon("Jeff%20the%20Land%20Shark")},
		{ID: "loki", Name: "Loki", BasePrice: 30, Icon: icon("Loki")},
		{ID: "luna-snow", Name: "Luna Snow", BasePrice: 25, Icon: icon("Luna%20Snow")},
		{ID: "mantis", Name: "Mantis", BasePrice: 40, Icon: icon("Mantis")},
		{ID: "rocket", Name: "Rocket", BasePrice: 20, Icon: icon("Rocket%20Raccoon")},
		{ID: "ultron", Name: "Ultron", BasePrice: 40, Icon: icon("Ultron")},
		{ID: "gambit", Name: "Gambit", BasePrice: 40, Icon: icon("Gambit")},
	},
}

// Services возвращает все услуги
func Services() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// Characters возвращает персонажей, сгруппированных по классу
func Characters() map[repository.CharacterClass][]Character {
	out := make(map[repository.CharacterClass][]Character, len(characters))
	for class := range characters {
		out[class] = ByClass(class)
	}
	return out
}

// ByClass возвращает персонажей класса; для неизвестного класса - пустой список
func ByClass(class repository.CharacterClass) []Character {
	list := characters[class]
	out := make([]Character, len(list))
	copy(out, list)
	return out
}

// Lookup ищет персонажа по id среди всех классов
func Lookup(id string) (Character, repository.CharacterClass, bool) {
	for class, list := range characters {
		for _, c := range list {
			if c.ID == id {
				return c, class, true
			}
		}
	}
	return Character{}, "", false
}
