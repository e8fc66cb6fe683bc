package share

// User-facing share copy. The frontend renders these verbatim, so the exact
// strings (emoji and line breaks included) are part of the contract.
const (
	ShareTitle  = "[Floris] 일상에 꽃을 심다"
	ButtonTitle = "매일 피어나는 작은 정원, 플로리스에서 확인하세요."

	// AnonymousSender is the placeholder the frontend sends when the sender
	// chose not to reveal a name; it gets the generic description below.
	AnonymousSender = "익명의 정원사"

	descriptionAnonymous   = "🌸 편지와 함께 꽃이 도착했습니다. 24시간 내 확인 하지 않으면 꽃이 시들어요!"
	descriptionNamedFormat = "🌸 %s님으로부터 편지와 함께 꽃이 도착했습니다.\n24시간 내 확인 하지 않으면 꽃이 시들어요!"

	ClaimSuccessMessage = "꽃이 편지함에 추가되었습니다!"
)
