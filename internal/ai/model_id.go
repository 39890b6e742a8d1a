package ai

import "fmt"

// OnlineSuffix asks the provider to augment the model with web search
const OnlineSuffix = ":online"

// ModelID builds the provider model identifier "<company>/<model>", with the online
// suffix appended when online augmentation is requested.
func ModelID(companyName, modelName string, online bool) string {
	id := fmt.Sprintf("%s/%s", companyName, modelName)
	if online {
		return id + OnlineSuffix
	}
	return id
}
